package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"thumbforge/internal/domain"
	"thumbforge/internal/history"
	"thumbforge/internal/infra"
	"thumbforge/internal/orchestrator"
)

// StyleAnalyzer is the slice of the generation client the style-training
// endpoint needs.
type StyleAnalyzer interface {
	AnalyzeStyle(ctx context.Context, refDataURIs []string) (string, error)
}

// ReferenceResolver turns mixed reference sources into data URIs.
type ReferenceResolver interface {
	FetchThumbnail(ctx context.Context, videoURL string) (string, error)
	ResolveReferences(ctx context.Context, sources []string) ([]string, error)
}

// App is the handler container. Every route hangs off it.
type App struct {
	Orchestrator *orchestrator.Orchestrator
	History      *history.Store
	Styles       StyleAnalyzer
	References   ReferenceResolver
	Logger       *infra.Logger
}

func NewApp(orch *orchestrator.Orchestrator, hist *history.Store, styles StyleAnalyzer, refs ReferenceResolver, logger *infra.Logger) *App {
	return &App{
		Orchestrator: orch,
		History:      hist,
		Styles:       styles,
		References:   refs,
		Logger:       logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"kind": kind, "message": message},
	})
}

// timelineState is the shared response shape of the history pass-throughs.
type timelineState struct {
	Cursor    int               `json:"cursor"`
	Length    int               `json:"length"`
	CurrentID string            `json:"current_id,omitempty"`
	Items     []domain.Artifact `json:"items,omitempty"`
}

func (a *App) historyState(includeItems bool) timelineState {
	state := timelineState{
		Cursor: a.History.Cursor(),
		Length: a.History.Len(),
	}
	if current, ok := a.History.Current(); ok {
		state.CurrentID = current.ID
	}
	if includeItems {
		state.Items = a.History.Items()
	}
	return state
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"thumbforge/internal/domain"
)

type generateRequest struct {
	Prompt        string `json:"prompt"`
	AspectRatio   string `json:"aspect_ratio"`
	Niche         string `json:"niche"`
	ReferenceFace string `json:"reference_face"`
	LearnedStyle  string `json:"learned_style"`
}

type editRequest struct {
	Prompt        string `json:"prompt"`
	ReferenceFace string `json:"reference_face"`
}

// Generate runs one full text-to-thumbnail pipeline pass and returns the
// committed artifact.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	artifact, err := a.Orchestrator.Submit(r.Context(), domain.GenerationRequest{
		Mode:          domain.ModeCreate,
		Prompt:        req.Prompt,
		AspectRatio:   domain.NormalizeAspectRatio(req.AspectRatio),
		Niche:         domain.NormalizeNiche(req.Niche),
		ReferenceFace: req.ReferenceFace,
		LearnedStyle:  req.LearnedStyle,
	})
	if err != nil {
		a.submitError(w, err)
		return
	}
	a.json(w, http.StatusOK, artifact)
}

// Edit applies an instruction to the artifact under the history cursor and
// commits the result as a new artifact.
func (a *App) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	artifact, err := a.Orchestrator.Submit(r.Context(), domain.GenerationRequest{
		Mode:          domain.ModeEdit,
		Prompt:        req.Prompt,
		ReferenceFace: req.ReferenceFace,
	})
	if err != nil {
		a.submitError(w, err)
		return
	}
	a.json(w, http.StatusOK, artifact)
}

// submitError maps the orchestrator's sentinel errors onto the API contract.
func (a *App) submitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		a.error(w, http.StatusUnprocessableEntity, "empty_prompt", "prompt must not be empty")
	case errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusConflict, "busy", "a generation is already in flight")
	case errors.Is(err, domain.ErrNoCurrentArtifact):
		a.error(w, http.StatusConflict, "no_current_image", "nothing to edit yet")
	default:
		a.Logger.Error().Err(err).Msg("handlers: generation failed")
		a.error(w, http.StatusBadGateway, "generation_failed", "image generation failed, try again")
	}
}

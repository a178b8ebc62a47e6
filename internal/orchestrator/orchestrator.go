// Package orchestrator drives a generation request from user intent to a
// committed history artifact: enhance, compose, dispatch, commit.
package orchestrator

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"thumbforge/internal/composer"
	"thumbforge/internal/domain"
	"thumbforge/internal/history"
	"thumbforge/internal/infra"
	"thumbforge/internal/storage"
)

// State is the orchestrator's lifecycle position. Both working states always
// resolve back to Idle; errors are a side channel, not a state.
type State string

const (
	StateIdle       State = "IDLE"
	StateGenerating State = "GENERATING"
	StateEditing    State = "EDITING"
)

// GenerationService is the slice of the remote client the orchestrator
// needs.
type GenerationService interface {
	EnhanceConcept(ctx context.Context, rawIdea string, niche domain.Niche) string
	SynthesizeFromText(ctx context.Context, finalPrompt string, ratio domain.AspectRatio) (string, error)
	SynthesizeFromReference(ctx context.Context, finalPrompt, faceDataURI string, ratio domain.AspectRatio) (string, error)
	EditImage(ctx context.Context, sourceDataURI, instruction, faceDataURI string) (string, error)
}

// EngagementRecorder counts generation submissions on the durable surface.
type EngagementRecorder interface {
	IncrementCounter(ctx context.Context, key string) (int64, error)
}

// Orchestrator serializes generation requests: at most one is in flight, and
// only its success path mutates history.
type Orchestrator struct {
	mu      sync.Mutex
	state   State
	lastErr string

	client     GenerationService
	history    *history.Store
	engagement EngagementRecorder
	logger     *infra.Logger

	now   func() time.Time
	newID func() string
}

// Options configures an Orchestrator.
type Options struct {
	Client     GenerationService
	History    *history.Store
	Engagement EngagementRecorder
	Logger     *infra.Logger
}

// New builds an orchestrator in the Idle state.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Orchestrator{
		state:      StateIdle,
		client:     opts.Client,
		history:    opts.History,
		engagement: opts.Engagement,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// State returns the current lifecycle position.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the single-slot user-visible error from the most recent
// failed request, empty when none.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// ClearError dismisses the current error slot.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	o.lastErr = ""
	o.mu.Unlock()
}

// Submit runs one generation or edit request to completion and returns the
// committed artifact. While a request is in flight any further submit is
// rejected with domain.ErrBusy before any remote call is made. Failures
// leave history untouched.
func (o *Orchestrator) Submit(ctx context.Context, req domain.GenerationRequest) (domain.Artifact, error) {
	text := req.Text()
	if text == "" {
		return domain.Artifact{}, domain.ErrEmptyPrompt
	}

	var working State
	switch req.Mode {
	case domain.ModeEdit:
		working = StateEditing
	default:
		working = StateGenerating
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return domain.Artifact{}, domain.ErrBusy
	}
	o.state = working
	o.lastErr = ""
	o.mu.Unlock()

	artifact, err := o.run(ctx, req, text)

	o.mu.Lock()
	o.state = StateIdle
	if err != nil {
		o.lastErr = err.Error()
	}
	o.mu.Unlock()

	return artifact, err
}

func (o *Orchestrator) run(ctx context.Context, req domain.GenerationRequest, text string) (domain.Artifact, error) {
	if req.Mode == domain.ModeEdit {
		return o.runEdit(ctx, req, text)
	}
	return o.runCreate(ctx, req, text)
}

func (o *Orchestrator) runCreate(ctx context.Context, req domain.GenerationRequest, text string) (domain.Artifact, error) {
	if o.engagement != nil {
		if _, err := o.engagement.IncrementCounter(ctx, storage.KeyEngagement); err != nil {
			o.logger.Warn().Err(err).Msg("orchestrator: engagement counter degraded")
		}
	}

	// Brainstorm is best-effort: the client falls back to the raw idea.
	visualConcept := o.client.EnhanceConcept(ctx, text, req.Niche)
	finalPrompt := composer.BuildTechnicalPrompt(visualConcept, req.Niche, req.LearnedStyle)

	var (
		dataURI string
		err     error
	)
	if req.ReferenceFace != "" {
		swapPrompt := composer.BuildFaceSwapInstruction(finalPrompt)
		dataURI, err = o.client.SynthesizeFromReference(ctx, swapPrompt, req.ReferenceFace, req.AspectRatio)
	} else {
		dataURI, err = o.client.SynthesizeFromText(ctx, finalPrompt, req.AspectRatio)
	}
	if err != nil {
		o.logger.Error().Err(err).Str("niche", string(req.Niche)).Msg("orchestrator: generation failed")
		return domain.Artifact{}, err
	}

	artifact := domain.Artifact{
		ID:          o.newID(),
		DataURI:     dataURI,
		Prompt:      text,
		CreatedAt:   o.now(),
		AspectRatio: req.AspectRatio,
		Niche:       req.Niche,
	}
	o.history.Append(artifact)
	return artifact, nil
}

func (o *Orchestrator) runEdit(ctx context.Context, req domain.GenerationRequest, text string) (domain.Artifact, error) {
	current, ok := o.history.Current()
	if !ok {
		return domain.Artifact{}, domain.ErrNoCurrentArtifact
	}

	instruction := composer.BuildEditInstruction(text, req.ReferenceFace != "")
	dataURI, err := o.client.EditImage(ctx, current.DataURI, instruction, req.ReferenceFace)
	if err != nil {
		o.logger.Error().Err(err).Str("source", current.ID).Msg("orchestrator: edit failed")
		return domain.Artifact{}, err
	}

	artifact := domain.Artifact{
		ID:          o.newID(),
		DataURI:     dataURI,
		Prompt:      current.Prompt + " + " + text,
		CreatedAt:   o.now(),
		AspectRatio: current.AspectRatio,
		Niche:       current.Niche,
	}
	o.history.Append(artifact)
	return artifact, nil
}

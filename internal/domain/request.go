package domain

import "strings"

// RequestMode selects between fresh generation and edit-in-place.
type RequestMode string

const (
	ModeCreate RequestMode = "CREATE"
	ModeEdit   RequestMode = "EDIT"
)

// GenerationRequest carries one user submission through the pipeline. It is
// ephemeral; only the resulting Artifact is persisted.
type GenerationRequest struct {
	Mode          RequestMode
	Prompt        string
	AspectRatio   AspectRatio
	Niche         Niche
	ReferenceFace string
	LearnedStyle  string
}

// Text returns the trimmed user input relevant to the request mode.
func (r GenerationRequest) Text() string {
	return strings.TrimSpace(r.Prompt)
}

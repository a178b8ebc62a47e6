package domain

import "errors"

var (
	ErrGenerationFailed    = errors.New("generation failed")
	ErrStyleAnalysisFailed = errors.New("style analysis failed")
	ErrFetchFailed         = errors.New("fetch failed")
	ErrBusy                = errors.New("generation in progress")
	ErrEmptyPrompt         = errors.New("empty prompt")
	ErrNoCurrentArtifact   = errors.New("no current artifact")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrCapacityExceeded    = errors.New("storage capacity exceeded")
)

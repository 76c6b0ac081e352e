package entities

import "errors"

// Domain errors
var (
	// Ingestion errors
	ErrInputTooShort       = errors.New("input too short")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrExtractionDegraded  = errors.New("extraction degraded")
	ErrRateLimited         = errors.New("ingestion cooldown active")

	// Review errors
	ErrAlreadyReviewed   = errors.New("suggestion already reviewed")
	ErrInvalidSuggestion = errors.New("invalid suggestion")

	// Merge errors
	ErrInvalidMerge = errors.New("invalid merge")

	// Generic errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

package submissions

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrGeneration   = errors.New("generation failed")
	ErrRender       = errors.New("render failed")
	ErrStorage      = errors.New("storage failed")
)

// Failure codes recorded on the submission. These are operator-facing; the
// API surfaces only generic messages.
const (
	FailureInvalidInput = "INVALID_INPUT"
	FailureGeneration   = "GENERATION_FAILED"
	FailureRender       = "RENDER_FAILED"
	FailureStorage      = "STORAGE_FAILED"
	FailureInternal     = "INTERNAL_ERROR"
)

package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for resume generation.
type Client interface {
	GenerateResume(ctx context.Context, input GenerateInput) (string, error)
}

// GenerateInput captures the inputs needed to generate a tailored resume.
type GenerateInput struct {
	CandidateText  string
	JobDescription string
}

// ProviderError describes a failure reported by the generation provider.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return "llm provider error: " + e.Message + " (" + e.Type + ")"
	}
	return "llm provider error: " + e.Message
}

// IsAuthError reports whether err is a provider credential failure. These are
// operator problems, not user problems, and get flagged in the operational
// log accordingly.
func IsAuthError(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode == 401 || pe.StatusCode == 403 || pe.Type == "authentication_error"
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation used when no provider is configured.
type PlaceholderClient struct{}

// GenerateResume returns ErrNotImplemented.
func (PlaceholderClient) GenerateResume(ctx context.Context, input GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}

package generation

import "context"

// Provider generates free text for a prompt.
//
// Implementations return a *ProviderError for every failure so callers can
// classify it with errors.Is against the kind sentinels.
type Provider interface {
	// Name identifies the backend in logs and error messages (e.g. "gemini").
	Name() string

	// Generate sends prompt to the backend and returns its text output.
	// It must honour ctx cancellation and deadlines.
	Generate(ctx context.Context, prompt string) (string, error)
}

package generation

import (
	"errors"
	"fmt"
)

// Error kinds reported inside a ProviderError.
var (
	// ErrProviderFailure covers network errors, non-2xx responses, blocked and empty output.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrInvalidResponse is returned when the model output cannot be decoded into the expected shape.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrProviderTimeout is returned when a call exceeds its deadline.
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrProviderUnavailable is returned without calling the backend while the circuit is open.
	ErrProviderUnavailable = errors.New("provider temporarily unavailable")

	// ErrInvalidConfig is returned when a provider cannot be built from its configuration.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)

// ProviderError reports a failed interaction with a text-generation backend.
type ProviderError struct {
	Provider string // backend name, e.g. "gemini"
	Op       string // operation, e.g. "generate" or "suggest_priorities"
	Err      error  // kind sentinel, optionally joined with the underlying cause
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError of the given kind. cause may be nil.
func NewProviderError(provider, op string, kind, cause error) *ProviderError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// IsProviderError reports whether err is or wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pErr *ProviderError
	return errors.As(err, &pErr)
}

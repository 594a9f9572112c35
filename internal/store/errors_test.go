package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "generic", err: ErrNotFound, want: true},
		{name: "task", err: ErrTaskNotFound, want: true},
		{name: "user", err: ErrUserNotFound, want: true},
		{name: "wrapped", err: fmt.Errorf("lookup: %w", ErrTaskNotFound), want: true},
		{name: "store error", err: NewStoreError("task", "get", "missing", ErrTaskNotFound), want: true},
		{name: "duplicate", err: ErrDuplicate, want: false},
		{name: "nil", err: nil, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFoundError(tc.err); got != tc.want {
				t.Errorf("IsNotFoundError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("task", "list", "query failed", cause)

	if got, want := err.Error(), "list task: query failed: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected StoreError to unwrap to its cause")
	}

	bare := NewStoreError("user", "ensure", "no id", nil)
	if got, want := bare.Error(), "ensure user: no id"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

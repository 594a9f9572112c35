package store

import (
	"context"

	"github.com/phrazzld/taskpilot-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Ensure records the user if no row with its id exists yet.
	// Existing rows are left untouched.
	Ensure(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

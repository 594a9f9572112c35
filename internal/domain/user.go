package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyUserID is returned when a user has no identifier.
var ErrEmptyUserID = errors.New("user ID cannot be empty")

// User is an identity known to the application. Identities are issued by the
// external authentication provider; a row is recorded the first time one is seen.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a User for an authenticated identity. A missing email is
// replaced by a placeholder derived from the id.
func NewUser(id, email string) (*User, error) {
	if id == "" {
		return nil, ErrEmptyUserID
	}
	if email == "" {
		email = fmt.Sprintf("%s@users.invalid", id)
	}
	return &User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

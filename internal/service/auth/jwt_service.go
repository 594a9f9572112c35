package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing bearer tokens.
//
// Tokens are HS256-signed JWTs whose subject is the opaque user id issued by
// the identity provider. The email claim is optional.
type JWTService interface {
	// GenerateToken creates a signed token for userID.
	// Used by tooling and tests; production tokens come from the identity provider.
	GenerateToken(ctx context.Context, userID, email string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrMissingSubject or
	// ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the identity carried by a validated token.
type Claims struct {
	// UserID is the token subject.
	UserID string `json:"sub"`

	// Email is empty when the token has no email claim.
	Email string `json:"email,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

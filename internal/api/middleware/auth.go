package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskpilot-api/internal/api/shared"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/service/auth"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// Every authenticated identity is recorded in users on first sight.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore, logger *slog.Logger) *AuthMiddleware {
	if jwtService == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("jwtService and users cannot be nil for AuthMiddleware")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the user ID to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingSubject),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		user, err := domain.NewUser(claims.UserID, claims.Email)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		if err := m.users.Ensure(r.Context(), user); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		log = log.With(slog.String("user_id", claims.UserID))
		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

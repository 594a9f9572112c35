package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Ensure implements store.UserStore.Ensure
func (s *PostgresUserStore) Ensure(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil || user.ID == "" {
		return domain.ErrEmptyUserID
	}

	query := `
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.CreatedAt)
	if err != nil {
		log.Error("failed to ensure user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return store.NewStoreError("user", "ensure", "insert failed", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		log.Info("user recorded", slog.String("user_id", user.ID))
	}
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("user_id", id))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

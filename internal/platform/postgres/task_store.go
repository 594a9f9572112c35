package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

const taskColumns = `id, user_id, title, description, status, ai_priority, created_at, updated_at, deleted_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
		priority    sql.NullString
		deletedAt   sql.NullTime
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&status,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if description.Valid {
		task.Description = &description.String
	}
	if priority.Valid {
		p := domain.TaskPriority(priority.String)
		task.AIPriority = &p
	}
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		task.DeletedAt = &t
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

func nullablePriority(p *domain.TaskPriority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create implements store.TaskStore.Create
// Returns validation errors from the domain Task if data is invalid.
// Returns store.ErrInvalidEntity if the owner row does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		nullableString(task.Description),
		string(task.Status),
		nullablePriority(task.AIPriority),
		task.CreatedAt,
		task.UpdatedAt,
		nullableTime(task.DeletedAt),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID))
	return nil
}

func (s *PostgresTaskStore) getOne(ctx context.Context, op, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("op", op))
			return nil, store.ErrTaskNotFound
		}
		log.Error("task query failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "query failed", MapError(err))
	}
	return task, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return s.getOne(ctx, "get", query, id)
}

// GetActiveByID implements store.TaskStore.GetActiveByID
func (s *PostgresTaskStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND deleted_at IS NULL`
	return s.getOne(ctx, "get_active", query, id)
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, ai_priority = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + taskColumns
	return s.getOne(ctx, "update", query,
		task.ID,
		task.Title,
		nullableString(task.Description),
		string(task.Status),
		nullablePriority(task.AIPriority),
		task.UpdatedAt,
	)
}

// UpdateAIPriority implements store.TaskStore.UpdateAIPriority
func (s *PostgresTaskStore) UpdateAIPriority(
	ctx context.Context,
	id uuid.UUID,
	priority *domain.TaskPriority,
	updatedAt time.Time,
) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET ai_priority = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + taskColumns
	return s.getOne(ctx, "update_ai_priority", query, id, nullablePriority(priority), updatedAt)
}

// SetDeletedAt implements store.TaskStore.SetDeletedAt
func (s *PostgresTaskStore) SetDeletedAt(
	ctx context.Context,
	id uuid.UUID,
	deletedAt *time.Time,
	updatedAt time.Time,
) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET deleted_at = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + taskColumns
	return s.getOne(ctx, "set_deleted_at", query, id, nullableTime(deletedAt), updatedAt)
}

// whereClause renders the filter predicates and their positional arguments.
func whereClause(filter store.TaskFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.IncludeDeleted {
		conditions = append(conditions, "deleted_at IS NULL")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, op, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("op", op),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", op, "scan failed", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "iteration failed", err)
	}

	return tasks, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC, id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return s.queryTasks(ctx, "list", query, args...)
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(ctx context.Context, filter store.TaskFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := whereClause(filter)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "query failed", MapError(err))
	}
	return total, nil
}

// ListActiveByIDs implements store.TaskStore.ListActiveByIDs
func (s *PostgresTaskStore) ListActiveByIDs(
	ctx context.Context,
	userID string,
	ids []uuid.UUID,
) ([]*domain.Task, error) {
	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND id = ANY($2::uuid[]) AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`
	return s.queryTasks(ctx, "list_by_ids", query, userID, idStrings)
}

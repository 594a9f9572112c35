package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
)

// TaskFilter selects tasks for List and Count.
type TaskFilter struct {
	// UserID restricts results to a single owner. Required.
	UserID string

	// Status restricts results to one status when non-nil.
	Status *domain.TaskStatus

	// IncludeDeleted also returns soft-deleted tasks.
	IncludeDeleted bool

	// Limit caps the number of rows returned. Zero means no limit. Ignored by Count.
	Limit int

	// Offset skips rows before returning results. Ignored by Count.
	Offset int
}

// TaskStore defines the interface for task data persistence.
// Ownership is not enforced here; callers compare Task.UserID themselves
// unless the method takes a user id.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by id regardless of its deleted state.
	// Returns ErrTaskNotFound if no row has that id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetActiveByID retrieves a task by id only if it is not soft-deleted.
	// Returns ErrTaskNotFound if no active row has that id.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves title, description, status, AI priority and updated_at of an
	// existing task and returns the stored row.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// UpdateAIPriority changes only the AI priority (and updated_at) of a task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateAIPriority(
		ctx context.Context,
		id uuid.UUID,
		priority *domain.TaskPriority,
		updatedAt time.Time,
	) (*domain.Task, error)

	// SetDeletedAt soft-deletes (non-nil deletedAt) or restores (nil) a task.
	// Returns ErrTaskNotFound if the task does not exist.
	SetDeletedAt(
		ctx context.Context,
		id uuid.UUID,
		deletedAt *time.Time,
		updatedAt time.Time,
	) (*domain.Task, error)

	// List returns tasks matching filter ordered by creation time, newest first.
	// Returns an empty slice if nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Count returns the number of tasks matching filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter TaskFilter) (int, error)

	// ListActiveByIDs returns the active tasks of userID whose id is in ids,
	// newest first. Unknown, foreign or deleted ids are skipped.
	ListActiveByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*domain.Task, error)
}

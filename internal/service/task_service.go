package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// Pagination bounds for List.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ListParams selects a page of a user's tasks.
type ListParams struct {
	Status         *domain.TaskStatus
	Page           int
	Limit          int
	IncludeDeleted bool
}

// PageMeta describes the page returned by List.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskPage is one page of tasks plus its metadata.
type TaskPage struct {
	Items []*domain.Task
	Meta  PageMeta
}

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
}

// TaskService provides the task lifecycle operations. Every call is scoped to
// the requesting user: reads of other users' tasks fail with ErrNotOwned or
// are filtered out.
type TaskService interface {
	// List returns one page of the user's tasks, newest first.
	List(ctx context.Context, userID string, params ListParams) (*TaskPage, error)

	// Get returns an active task owned by the user.
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Task, error)

	// Create adds a new task for the user.
	Create(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error)

	// Update applies patch to an active task owned by the user.
	Update(ctx context.Context, userID string, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// SoftDelete marks an active task owned by the user as deleted.
	SoftDelete(ctx context.Context, userID string, id uuid.UUID) error

	// Restore clears the deleted mark of a task owned by the user.
	// Unlike Get it also finds deleted tasks, and restoring an active task is a no-op.
	Restore(ctx context.Context, userID string, id uuid.UUID) (*domain.Task, error)

	// ListPending returns the user's active PENDING tasks, newest first.
	ListPending(ctx context.Context, userID string) ([]*domain.Task, error)

	// ListByIDs returns the user's active tasks among ids. Other ids are dropped silently.
	ListByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*domain.Task, error)

	// SetAIPriority records the assistant's priority on an active task owned by the user.
	SetAIPriority(ctx context.Context, userID string, id uuid.UUID, priority domain.TaskPriority) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if the task store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// NormalizePage clamps page and limit into their accepted ranges.
// page is capped so that (page-1)*limit cannot overflow.
func NormalizePage(page, limit int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, userID string, params ListParams) (*TaskPage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, domain.NewValidationError("status", "must be one of PENDING, IN_PROGRESS, COMPLETED", nil)
	}

	page, limit := NormalizePage(params.Page, params.Limit)
	filter := store.TaskFilter{
		UserID:         userID,
		Status:         params.Status,
		IncludeDeleted: params.IncludeDeleted,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	items, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	total, err := s.tasks.Count(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to count tasks", err)
	}

	return &TaskPage{
		Items: items,
		Meta: PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// getOwnedActive loads an active task and checks that userID owns it.
func (s *taskServiceImpl) getOwnedActive(ctx context.Context, op, userID string, id uuid.UUID) (*domain.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetActiveByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError(op, "failed to load task", err)
	}

	if !task.IsOwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied",
			slog.String("op", op),
			slog.String("task_id", id.String()),
			slog.String("user_id", userID))
		return nil, ErrNotOwned
	}

	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Task, error) {
	return s.getOwnedActive(ctx, "get_task", userID, id)
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	task, err := domain.NewTaskAt(userID, input.Title, input.Description, input.Status, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID))
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID string,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	task, err := s.getOwnedActive(ctx, "update_task", userID, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return task, nil
	}

	if err := task.Apply(patch, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID))
	return updated, nil
}

// SoftDelete implements TaskService.SoftDelete
func (s *taskServiceImpl) SoftDelete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.getOwnedActive(ctx, "delete_task", userID, id); err != nil {
		return err
	}

	now := s.now()
	if _, err := s.tasks.SetDeletedAt(ctx, id, &now, now); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID))
	return nil
}

// Restore implements TaskService.Restore
func (s *taskServiceImpl) Restore(ctx context.Context, userID string, id uuid.UUID) (*domain.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("restore_task", "failed to load task", err)
	}
	if !task.IsOwnedBy(userID) {
		return nil, ErrNotOwned
	}

	restored, err := s.tasks.SetDeletedAt(ctx, id, nil, s.now())
	if err != nil {
		return nil, NewTaskServiceError("restore_task", "failed to restore task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task restored",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID),
		slog.Bool("was_deleted", task.IsDeleted()))
	return restored, nil
}

// ListPending implements TaskService.ListPending
func (s *taskServiceImpl) ListPending(ctx context.Context, userID string) ([]*domain.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	pending := domain.TaskStatusPending
	tasks, err := s.tasks.List(ctx, store.TaskFilter{UserID: userID, Status: &pending})
	if err != nil {
		return nil, NewTaskServiceError("list_pending", "failed to list pending tasks", err)
	}
	return tasks, nil
}

// ListByIDs implements TaskService.ListByIDs
func (s *taskServiceImpl) ListByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*domain.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListActiveByIDs(ctx, userID, ids)
	if err != nil {
		return nil, NewTaskServiceError("list_by_ids", "failed to list tasks", err)
	}
	return tasks, nil
}

// SetAIPriority implements TaskService.SetAIPriority
func (s *taskServiceImpl) SetAIPriority(
	ctx context.Context,
	userID string,
	id uuid.UUID,
	priority domain.TaskPriority,
) (*domain.Task, error) {
	if !priority.IsValid() {
		return nil, domain.NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH, URGENT", nil)
	}
	if _, err := s.getOwnedActive(ctx, "set_ai_priority", userID, id); err != nil {
		return nil, err
	}

	updated, err := s.tasks.UpdateAIPriority(ctx, id, &priority, s.now())
	if err != nil {
		return nil, NewTaskServiceError("set_ai_priority", "failed to save priority", err)
	}
	return updated, nil
}

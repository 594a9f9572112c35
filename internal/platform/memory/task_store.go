package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// TaskStore keeps tasks in a map guarded by a RWMutex.
// Tasks are copied on the way in and out so callers never share state with the store.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]domain.Task),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

func cloneTask(t domain.Task) *domain.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.AIPriority != nil {
		p := *t.AIPriority
		t.AIPriority = &p
	}
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		t.DeletedAt = &at
	}
	return &t
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	s.tasks[task.ID] = *cloneTask(*task)
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// GetActiveByID implements store.TaskStore.GetActiveByID
func (s *TaskStore) GetActiveByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// mutate applies fn to the stored task under the write lock and returns a copy of the result.
func (s *TaskStore) mutate(id uuid.UUID, fn func(t *domain.Task)) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	fn(&t)
	s.tasks[id] = *cloneTask(t)
	return cloneTask(t), nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	in := cloneTask(*task)
	return s.mutate(task.ID, func(t *domain.Task) {
		t.Title = in.Title
		t.Description = in.Description
		t.Status = in.Status
		t.AIPriority = in.AIPriority
		t.UpdatedAt = in.UpdatedAt
	})
}

// UpdateAIPriority implements store.TaskStore.UpdateAIPriority
func (s *TaskStore) UpdateAIPriority(
	_ context.Context,
	id uuid.UUID,
	priority *domain.TaskPriority,
	updatedAt time.Time,
) (*domain.Task, error) {
	return s.mutate(id, func(t *domain.Task) {
		t.AIPriority = priority
		t.UpdatedAt = updatedAt
	})
}

// SetDeletedAt implements store.TaskStore.SetDeletedAt
func (s *TaskStore) SetDeletedAt(
	_ context.Context,
	id uuid.UUID,
	deletedAt *time.Time,
	updatedAt time.Time,
) (*domain.Task, error) {
	return s.mutate(id, func(t *domain.Task) {
		t.DeletedAt = deletedAt
		t.UpdatedAt = updatedAt
	})
}

func matches(t domain.Task, filter store.TaskFilter) bool {
	if t.UserID != filter.UserID {
		return false
	}
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if !filter.IncludeDeleted && t.DeletedAt != nil {
		return false
	}
	return true
}

// newestFirst orders by creation time descending with the id as tie-break.
func newestFirst(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() > tasks[j].ID.String()
	})
}

// List implements store.TaskStore.List
func (s *TaskStore) List(_ context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.mu.RLock()
	result := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if matches(t, filter) {
			result = append(result, cloneTask(t))
		}
	}
	s.mu.RUnlock()

	newestFirst(result)

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Task{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(_ context.Context, filter store.TaskFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tasks {
		if matches(t, filter) {
			n++
		}
	}
	return n, nil
}

// ListActiveByIDs implements store.TaskStore.ListActiveByIDs
func (s *TaskStore) ListActiveByIDs(_ context.Context, userID string, ids []uuid.UUID) ([]*domain.Task, error) {
	s.mu.RLock()
	result := make([]*domain.Task, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := s.tasks[id]
		if ok && t.UserID == userID && t.DeletedAt == nil {
			result = append(result, cloneTask(t))
		}
	}
	s.mu.RUnlock()

	newestFirst(result)
	return result, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a mock implementation of store.TaskStore
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, task)
	updated, _ := args.Get(0).(*domain.Task)
	return updated, args.Error(1)
}

func (m *MockTaskStore) UpdateAIPriority(
	ctx context.Context,
	id uuid.UUID,
	priority *domain.TaskPriority,
	updatedAt time.Time,
) (*domain.Task, error) {
	args := m.Called(ctx, id, priority, updatedAt)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) SetDeletedAt(
	ctx context.Context,
	id uuid.UUID,
	deletedAt *time.Time,
	updatedAt time.Time,
) (*domain.Task, error) {
	args := m.Called(ctx, id, deletedAt, updatedAt)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) Count(ctx context.Context, filter store.TaskFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) ListActiveByIDs(
	ctx context.Context,
	userID string,
	ids []uuid.UUID,
) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, ids)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

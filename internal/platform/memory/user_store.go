package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// UserStore keeps users in a map guarded by a RWMutex.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

var _ store.UserStore = (*UserStore)(nil)

// Ensure implements store.UserStore.Ensure
func (s *UserStore) Ensure(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		s.users[user.ID] = *user
	}
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/postgres"
	"github.com/phrazzld/taskpilot-api/internal/store"
	"github.com/phrazzld/taskpilot-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, tx *sql.Tx, id string) {
	t.Helper()
	user, err := domain.NewUser(id, "")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Ensure(context.Background(), user))
}

func createTask(t *testing.T, s *postgres.PostgresTaskStore, userID, title string, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, nil, "")
	require.NoError(t, err)
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestPostgresTaskStore_CRUD(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		seedUser(t, tx, "pg-user-1")
		s := postgres.NewPostgresTaskStore(tx, nil)

		desc := "two litres"
		task, err := domain.NewTask("pg-user-1", "Buy milk", &desc, "")
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, task))

		got, err := s.GetActiveByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.Nil(t, got.AIPriority)

		later := got.UpdatedAt.Add(time.Second)
		completed := domain.TaskStatusCompleted
		require.NoError(t, got.Apply(domain.TaskPatch{Status: &completed, Description: domain.Null[string]()}, later))
		updated, err := s.Update(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.Nil(t, updated.Description)
		assert.WithinDuration(t, later, updated.UpdatedAt, time.Millisecond)

		high := domain.TaskPriorityHigh
		prioritized, err := s.UpdateAIPriority(ctx, task.ID, &high, later)
		require.NoError(t, err)
		require.NotNil(t, prioritized.AIPriority)
		assert.Equal(t, domain.TaskPriorityHigh, *prioritized.AIPriority)

		deletedAt := later.Add(time.Second)
		deleted, err := s.SetDeletedAt(ctx, task.ID, &deletedAt, deletedAt)
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted())

		_, err = s.GetActiveByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		anyState, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, anyState.IsDeleted())

		restored, err := s.SetDeletedAt(ctx, task.ID, nil, deletedAt)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted())
	})
}

func TestPostgresTaskStore_NotFound(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		missing := uuid.New()

		_, err := s.GetByID(ctx, missing)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = s.UpdateAIPriority(ctx, missing, nil, time.Now().UTC())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = s.SetDeletedAt(ctx, missing, nil, time.Now().UTC())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_CreateWithoutUser(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresTaskStore(tx, nil)
		task, err := domain.NewTask("pg-ghost", "Orphan", nil, "")
		require.NoError(t, err)

		err = s.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresTaskStore_ListAndCount(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		seedUser(t, tx, "pg-owner")
		seedUser(t, tx, "pg-other")
		s := postgres.NewPostgresTaskStore(tx, nil)

		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
		var tasks []*domain.Task
		for i := 0; i < 5; i++ {
			tasks = append(tasks, createTask(t, s, "pg-owner", fmt.Sprintf("task %d", i), base.Add(time.Duration(i)*time.Minute)))
		}
		createTask(t, s, "pg-other", "foreign", base)

		deletedAt := base.Add(time.Hour)
		_, err := s.SetDeletedAt(ctx, tasks[0].ID, &deletedAt, deletedAt)
		require.NoError(t, err)

		page, err := s.List(ctx, store.TaskFilter{UserID: "pg-owner", Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, tasks[4].ID, page[0].ID)
		assert.Equal(t, tasks[3].ID, page[1].ID)

		rest, err := s.List(ctx, store.TaskFilter{UserID: "pg-owner", Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, tasks[2].ID, rest[0].ID)

		total, err := s.Count(ctx, store.TaskFilter{UserID: "pg-owner", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 4, total)

		withDeleted, err := s.Count(ctx, store.TaskFilter{UserID: "pg-owner", IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, 5, withDeleted)

		byIDs, err := s.ListActiveByIDs(ctx, "pg-owner", []uuid.UUID{tasks[0].ID, tasks[1].ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, byIDs, 1)
		assert.Equal(t, tasks[1].ID, byIDs[0].ID)
	})
}

func TestPostgresUserStore_Ensure(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresUserStore(tx, nil)

		first, err := domain.NewUser("pg-ensure", "first@example.com")
		require.NoError(t, err)
		require.NoError(t, s.Ensure(ctx, first))

		second, err := domain.NewUser("pg-ensure", "second@example.com")
		require.NoError(t, err)
		require.NoError(t, s.Ensure(ctx, second))

		got, err := s.GetByID(ctx, "pg-ensure")
		require.NoError(t, err)
		assert.Equal(t, "first@example.com", got.Email)

		_, err = s.GetByID(ctx, "pg-nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

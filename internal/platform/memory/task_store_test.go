package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

func newTask(t *testing.T, userID, title string, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, nil, "")
	if err != nil {
		t.Fatalf("NewTask() err = %v, want nil", err)
	}
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	return task
}

func TestTaskStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	task := newTask(t, "u1", "t1", time.Now().UTC())

	if err := ts.Create(ctx, task); err != nil {
		t.Fatalf("Create() err = %v, want nil", err)
	}
	if err := ts.Create(ctx, task); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("Create() duplicate err = %v, want ErrDuplicate", err)
	}

	got, err := ts.GetActiveByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetActiveByID() err = %v, want nil", err)
	}
	if got.Title != "t1" || got.UserID != "u1" {
		t.Fatalf("GetActiveByID() returned unexpected task: %+v", got)
	}

	got.Title = "mutated"
	again, _ := ts.GetByID(ctx, task.ID)
	if again.Title != "t1" {
		t.Fatal("store must not share state with returned tasks")
	}
}

func TestTaskStore_Get_NotFound(t *testing.T) {
	ts := NewTaskStore()

	if _, err := ts.GetByID(context.Background(), uuid.New()); !errors.Is(err, store.ErrTaskNotFound) {
		t.Fatalf("GetByID() err = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskStore_SoftDeleteVisibility(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	task := newTask(t, "u1", "t1", time.Now().UTC())
	_ = ts.Create(ctx, task)

	now := time.Now().UTC()
	if _, err := ts.SetDeletedAt(ctx, task.ID, &now, now); err != nil {
		t.Fatalf("SetDeletedAt() err = %v, want nil", err)
	}

	if _, err := ts.GetActiveByID(ctx, task.ID); !errors.Is(err, store.ErrTaskNotFound) {
		t.Fatalf("GetActiveByID() err = %v, want ErrTaskNotFound", err)
	}
	if got, err := ts.GetByID(ctx, task.ID); err != nil || !got.IsDeleted() {
		t.Fatalf("GetByID() = %+v, %v; want deleted task", got, err)
	}

	active, _ := ts.Count(ctx, store.TaskFilter{UserID: "u1"})
	all, _ := ts.Count(ctx, store.TaskFilter{UserID: "u1", IncludeDeleted: true})
	if active != 0 || all != 1 {
		t.Fatalf("Count() active=%d all=%d, want 0 and 1", active, all)
	}

	restored, err := ts.SetDeletedAt(ctx, task.ID, nil, now)
	if err != nil || restored.IsDeleted() {
		t.Fatalf("SetDeletedAt(nil) = %+v, %v; want active task", restored, err)
	}
}

func TestTaskStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 45; i++ {
		_ = ts.Create(ctx, newTask(t, "u1", fmt.Sprintf("task %02d", i), base.Add(time.Duration(i)*time.Second)))
	}
	_ = ts.Create(ctx, newTask(t, "u2", "foreign", base))

	pageSizes := []int{20, 20, 5}
	for page, want := range pageSizes {
		got, err := ts.List(ctx, store.TaskFilter{UserID: "u1", Limit: 20, Offset: page * 20})
		if err != nil {
			t.Fatalf("List() err = %v, want nil", err)
		}
		if len(got) != want {
			t.Fatalf("page %d: len = %d, want %d", page+1, len(got), want)
		}
	}

	first, _ := ts.List(ctx, store.TaskFilter{UserID: "u1", Limit: 1})
	if first[0].Title != "task 44" {
		t.Fatalf("List() first = %s, want newest task", first[0].Title)
	}

	beyond, _ := ts.List(ctx, store.TaskFilter{UserID: "u1", Limit: 20, Offset: 60})
	if len(beyond) != 0 {
		t.Fatalf("List() beyond end len = %d, want 0", len(beyond))
	}
}

func TestTaskStore_ListStatusFilter(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	now := time.Now().UTC()

	done := newTask(t, "u1", "done", now)
	done.Status = domain.TaskStatusCompleted
	_ = ts.Create(ctx, done)
	_ = ts.Create(ctx, newTask(t, "u1", "open", now))

	completed := domain.TaskStatusCompleted
	got, _ := ts.List(ctx, store.TaskFilter{UserID: "u1", Status: &completed})
	if len(got) != 1 || got[0].ID != done.ID {
		t.Fatalf("List(status) = %v, want only the completed task", got)
	}
}

func TestTaskStore_ListActiveByIDs(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	now := time.Now().UTC()

	mine := newTask(t, "u1", "mine", now)
	gone := newTask(t, "u1", "gone", now)
	theirs := newTask(t, "u2", "theirs", now)
	for _, task := range []*domain.Task{mine, gone, theirs} {
		_ = ts.Create(ctx, task)
	}
	_, _ = ts.SetDeletedAt(ctx, gone.ID, &now, now)

	got, err := ts.ListActiveByIDs(ctx, "u1", []uuid.UUID{mine.ID, gone.ID, theirs.ID, uuid.New(), mine.ID})
	if err != nil {
		t.Fatalf("ListActiveByIDs() err = %v, want nil", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("ListActiveByIDs() = %v, want only the owned active task", got)
	}
}

func TestTaskStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	ts := NewTaskStore()
	now := time.Now().UTC()

	tasks := make([]*domain.Task, 50)
	for i := range tasks {
		tasks[i] = newTask(t, "u1", fmt.Sprintf("t%d", i), now)
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task *domain.Task) {
			defer wg.Done()
			_ = ts.Create(ctx, task)
			_, _ = ts.List(ctx, store.TaskFilter{UserID: "u1"})
		}(task)
	}
	wg.Wait()

	n, _ := ts.Count(ctx, store.TaskFilter{UserID: "u1"})
	if n != 50 {
		t.Fatalf("Count() = %d, want 50", n)
	}
}

func TestUserStore_Ensure(t *testing.T) {
	ctx := context.Background()
	us := NewUserStore()

	first, _ := domain.NewUser("u1", "first@example.com")
	second, _ := domain.NewUser("u1", "second@example.com")
	_ = us.Ensure(ctx, first)
	_ = us.Ensure(ctx, second)

	got, err := us.GetByID(ctx, "u1")
	if err != nil || got.Email != "first@example.com" {
		t.Fatalf("GetByID() = %+v, %v; want first email kept", got, err)
	}
	if _, err := us.GetByID(ctx, "missing"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("GetByID() err = %v, want ErrUserNotFound", err)
	}
	if err := us.Ensure(ctx, &domain.User{}); !errors.Is(err, domain.ErrEmptyUserID) {
		t.Fatalf("Ensure() err = %v, want ErrEmptyUserID", err)
	}
}

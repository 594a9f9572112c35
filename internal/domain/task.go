package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its workflow.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// TaskPriority is the urgency assigned to a task, usually by the AI assistant.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Field limits for tasks.
const (
	MaxTaskTitleLength       = 255
	MaxTaskDescriptionLength = 5000
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// IsValid reports whether p is a known task priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// ParseTaskPriority converts s into a TaskPriority, rejecting unknown values.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseTaskPriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH, URGENT", nil)
	}
	return p, nil
}

// Task is a unit of work owned by a single user.
//
// A task is active while DeletedAt is nil. Soft-deleted tasks keep their row
// and can be restored by their owner at any time.
type Task struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      TaskStatus    `json:"status"`
	AIPriority  *TaskPriority `json:"aiPriority"`
	UserID      string        `json:"userId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	DeletedAt   *time.Time    `json:"deletedAt"`
}

// NewTask creates a new active Task for userID stamped with the current time.
// An empty status defaults to PENDING. AIPriority always starts unset.
func NewTask(userID, title string, description *string, status TaskStatus) (*Task, error) {
	return NewTaskAt(userID, title, description, status, time.Now().UTC())
}

// NewTaskAt is NewTask with an explicit creation time.
func NewTaskAt(userID, title string, description *string, status TaskStatus, now time.Time) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if t.UserID == "" {
		return NewValidationError("userId", "cannot be empty", nil)
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", nil)
	}

	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 255 characters", nil)
	}

	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxTaskDescriptionLength {
		return NewValidationError("description", "must be at most 5000 characters", nil)
	}

	if !t.Status.IsValid() {
		return NewValidationError("status", "must be one of PENDING, IN_PROGRESS, COMPLETED", nil)
	}

	if t.AIPriority != nil && !t.AIPriority.IsValid() {
		return NewValidationError("aiPriority", "must be one of LOW, MEDIUM, HIGH, URGENT", nil)
	}

	return nil
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOwnedBy reports whether userID owns the task.
func (t *Task) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}

// Optional carries a patch value that may be absent, explicitly null, or set.
// The zero value means "not provided".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a provided, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a provided Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// TaskPatch lists the fields an update may change.
// Title and Status cannot be cleared; Description and AIPriority can.
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Status      *TaskStatus
	AIPriority  Optional[TaskPriority]
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Status == nil && !p.AIPriority.Set
}

// Apply copies the provided fields of p onto the task, refreshes UpdatedAt and
// re-validates. The task is left unchanged when validation fails.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	next := *t

	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description.Set {
		next.Description = p.Description.Value
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.AIPriority.Set {
		next.AIPriority = p.AIPriority.Value
	}
	next.UpdatedAt = now

	if err := next.Validate(); err != nil {
		return err
	}

	*t = next
	return nil
}

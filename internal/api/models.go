package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/service"
)

// Nullable is a JSON field that distinguishes "absent" from "null".
// Set is false when the key was not present in the body.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler. It only runs for keys present in the body.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// CreateTaskRequest defines the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      string  `json:"status"      validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// toInput converts the request into service input.
func (r CreateTaskRequest) toInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
	}
}

// UpdateTaskRequest defines the payload for PATCH /api/tasks/{id}.
// Description and aiPriority may be sent as null to clear them.
type UpdateTaskRequest struct {
	Title       *string          `json:"title"       validate:"omitempty,min=1,max=255"`
	Description Nullable[string] `json:"description" validate:"-"`
	Status      *string          `json:"status"      validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	AIPriority  Nullable[string] `json:"aiPriority"  validate:"-"`
}

// toPatch converts the request into a domain patch. Value checks the
// validator cannot express on Nullable fields happen in the domain.
func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title: r.Title,
		Description: domain.Optional[string]{
			Set:   r.Description.Set,
			Value: r.Description.Value,
		},
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	if r.AIPriority.Set {
		patch.AIPriority.Set = true
		if r.AIPriority.Value != nil {
			priority := domain.TaskPriority(*r.AIPriority.Value)
			patch.AIPriority.Value = &priority
		}
	}
	return patch
}

// ListTasksQuery holds the parsed query string of GET /api/tasks.
type ListTasksQuery struct {
	Status         string `json:"status"         validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Page           int    `json:"page"           validate:"min=1"`
	Limit          int    `json:"limit"          validate:"min=1,max=100"`
	IncludeDeleted bool   `json:"includeDeleted"`
}

// toParams converts the query into service list parameters.
func (q ListTasksQuery) toParams() service.ListParams {
	params := service.ListParams{
		Page:           q.Page,
		Limit:          q.Limit,
		IncludeDeleted: q.IncludeDeleted,
	}
	if q.Status != "" {
		status := domain.TaskStatus(q.Status)
		params.Status = &status
	}
	return params
}

// SuggestPrioritiesRequest defines the payload for POST /api/ai/priorities.
type SuggestPrioritiesRequest struct {
	TaskIDs []string `json:"taskIds" validate:"omitempty,max=100,dive,uuid"`
}

// CompleteDescriptionRequest defines the payload for POST /api/ai/complete-description.
type CompleteDescriptionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	AIPriority  *string    `json:"aiPriority"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		DeletedAt:   task.DeletedAt,
	}
	if task.AIPriority != nil {
		priority := string(*task.AIPriority)
		resp.AIPriority = &priority
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = taskToResponse(task)
	}
	return out
}

// DeleteResponse is returned by DELETE /api/tasks/{id}.
type DeleteResponse struct {
	Success bool `json:"success"`
}

package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phrazzld/taskpilot-api/internal/api/shared"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// parseListQuery reads and validates the list query string.
func parseListQuery(values url.Values) (ListTasksQuery, error) {
	q := ListTasksQuery{
		Status: values.Get("status"),
		Page:   1,
		Limit:  service.DefaultPageLimit,
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, domain.NewValidationError("page", "must be an integer", nil)
		}
		q.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, domain.NewValidationError("limit", "must be an integer", nil)
		}
		q.Limit = limit
	}
	if raw := values.Get("includeDeleted"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return q, domain.NewValidationError("includeDeleted", "must be a boolean", nil)
		}
		q.IncludeDeleted = include
	}

	if err := shared.ValidateRequest(q); err != nil {
		return q, err
	}
	return q, nil
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.tasks.List(r.Context(), userID, query.toParams())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.ListResponse{
		Data: tasksToResponse(page.Items),
		Meta: page.Meta,
	})
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PATCH /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, taskID, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.tasks.SoftDelete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{Success: true})
}

// RestoreTask handles POST /api/tasks/{id}/restore requests
func (h *TaskHandler) RestoreTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.tasks.Restore(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restore task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}

package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/api/shared"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/service/assist"
)

// AIHandler handles the AI assistance endpoints
type AIHandler struct {
	assist assist.Service
	logger *slog.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(assistService assist.Service, logger *slog.Logger) *AIHandler {
	if assistService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("assist service cannot be nil for AIHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AIHandler{
		assist: assistService,
		logger: logger.With(slog.String("component", "ai_handler")),
	}
}

// Summarize handles POST /api/ai/summary requests
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.assist.SummarizePending(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize tasks")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, summary)
}

// SuggestPriorities handles POST /api/ai/priorities requests.
// An empty body suggests priorities for every pending task.
func (h *AIHandler) SuggestPriorities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req SuggestPrioritiesRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		if MapErrorToStatusCode(err) == http.StatusRequestEntityTooLarge {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("taskIds", "must contain valid UUIDs", domain.ErrInvalidID), "")
			return
		}
		ids = append(ids, id)
	}

	suggestions, err := h.assist.SuggestAndApplyPriorities(r.Context(), userID, ids)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest priorities")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, suggestions)
}

// CompleteDescription handles POST /api/ai/complete-description requests
func (h *AIHandler) CompleteDescription(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	var req CompleteDescriptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	completion, err := h.assist.CompleteDescription(r.Context(), req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete description")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, completion)
}

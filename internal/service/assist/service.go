package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/generation"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/service"
)

// EmptySummary is returned when there is nothing pending to summarize.
const EmptySummary = "No pending tasks. You are all caught up!"

// TaskSummary describes a user's pending work.
type TaskSummary struct {
	Summary       string  `json:"summary"`
	TotalPending  int     `json:"totalPending"`
	EstimatedTime *string `json:"estimatedTime,omitempty"`
}

// PrioritySuggestion is the priority the model proposes for one task.
type PrioritySuggestion struct {
	TaskID   uuid.UUID           `json:"taskId"`
	Priority domain.TaskPriority `json:"priority"`
	Reason   string              `json:"reason"`
}

// DescriptionCompletion is a generated description for a task title.
type DescriptionCompletion struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Service defines the AI assistance operations.
type Service interface {
	// Summarize describes tasks in a few sentences. No provider call is made
	// for an empty list.
	Summarize(ctx context.Context, tasks []*domain.Task) (*TaskSummary, error)

	// SuggestPriorities proposes a priority for tasks. Nothing is persisted.
	SuggestPriorities(ctx context.Context, tasks []*domain.Task) ([]PrioritySuggestion, error)

	// CompleteDescription generates a description from a task title.
	CompleteDescription(ctx context.Context, title string) (*DescriptionCompletion, error)

	// SummarizePending summarizes the user's pending tasks.
	SummarizePending(ctx context.Context, userID string) (*TaskSummary, error)

	// SuggestAndApplyPriorities suggests priorities for the given tasks, or for
	// all pending tasks when ids is empty, and stores each suggestion in turn.
	SuggestAndApplyPriorities(ctx context.Context, userID string, ids []uuid.UUID) ([]PrioritySuggestion, error)
}

// serviceImpl implements the Service interface
type serviceImpl struct {
	provider generation.Provider
	tasks    service.TaskService
	logger   *slog.Logger
}

// NewService creates a new assist Service.
// It returns an error if the provider or task service is nil.
func NewService(provider generation.Provider, tasks service.TaskService, logger *slog.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", generation.ErrInvalidConfig)
	}
	if tasks == nil {
		return nil, fmt.Errorf("%w: task service cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		provider: provider,
		tasks:    tasks,
		logger: logger.With(
			slog.String("component", "assist_service"),
			slog.String("provider", provider.Name()),
		),
	}, nil
}

// generate sends prompt to the provider and returns the output with code fences removed.
func (s *serviceImpl) generate(ctx context.Context, op, prompt string) (string, error) {
	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		if generation.IsProviderError(err) {
			return "", err
		}
		return "", generation.NewProviderError(s.provider.Name(), op, generation.ErrProviderFailure, err)
	}
	return stripFences(text), nil
}

func (s *serviceImpl) invalid(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Warn("could not decode model output",
		slog.String("op", op),
		slog.String("error", err.Error()))
	return generation.NewProviderError(s.provider.Name(), op, generation.ErrInvalidResponse, err)
}

// Summarize implements Service.Summarize
func (s *serviceImpl) Summarize(ctx context.Context, tasks []*domain.Task) (*TaskSummary, error) {
	const op = "summarize"

	if len(tasks) == 0 {
		return &TaskSummary{Summary: EmptySummary}, nil
	}

	prompt, err := buildSummaryPrompt(tasks)
	if err != nil {
		return nil, generation.NewProviderError(s.provider.Name(), op, generation.ErrProviderFailure, err)
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return nil, err
	}

	summary, err := decodeSummary(text, len(tasks))
	if err != nil {
		return nil, s.invalid(ctx, op, err)
	}
	return summary, nil
}

// SuggestPriorities implements Service.SuggestPriorities
func (s *serviceImpl) SuggestPriorities(ctx context.Context, tasks []*domain.Task) ([]PrioritySuggestion, error) {
	const op = "suggest_priorities"

	if len(tasks) == 0 {
		return []PrioritySuggestion{}, nil
	}

	prompt, err := buildPrioritiesPrompt(tasks)
	if err != nil {
		return nil, generation.NewProviderError(s.provider.Name(), op, generation.ErrProviderFailure, err)
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := decodePriorities(text, tasks)
	if err != nil {
		return nil, s.invalid(ctx, op, err)
	}
	return suggestions, nil
}

// CompleteDescription implements Service.CompleteDescription
func (s *serviceImpl) CompleteDescription(ctx context.Context, title string) (*DescriptionCompletion, error) {
	const op = "complete_description"

	if strings.TrimSpace(title) == "" {
		return nil, domain.NewValidationError("title", "is required", nil)
	}

	prompt, err := buildDescriptionPrompt(title)
	if err != nil {
		return nil, generation.NewProviderError(s.provider.Name(), op, generation.ErrProviderFailure, err)
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return nil, err
	}

	completion, err := decodeDescription(text)
	if err != nil {
		return nil, s.invalid(ctx, op, err)
	}
	return completion, nil
}

// SummarizePending implements Service.SummarizePending
func (s *serviceImpl) SummarizePending(ctx context.Context, userID string) (*TaskSummary, error) {
	tasks, err := s.tasks.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, tasks)
}

// SuggestAndApplyPriorities implements Service.SuggestAndApplyPriorities
func (s *serviceImpl) SuggestAndApplyPriorities(
	ctx context.Context,
	userID string,
	ids []uuid.UUID,
) ([]PrioritySuggestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		tasks []*domain.Task
		err   error
	)
	if len(ids) > 0 {
		tasks, err = s.tasks.ListByIDs(ctx, userID, ids)
	} else {
		tasks, err = s.tasks.ListPending(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	suggestions, err := s.SuggestPriorities(ctx, tasks)
	if err != nil {
		return nil, err
	}

	// Writes are applied one at a time; earlier ones stay if a later one fails.
	for i, suggestion := range suggestions {
		if _, err := s.tasks.SetAIPriority(ctx, userID, suggestion.TaskID, suggestion.Priority); err != nil {
			log.Error("failed to apply suggested priority",
				slog.String("task_id", suggestion.TaskID.String()),
				slog.Int("applied", i),
				slog.Int("total", len(suggestions)),
				slog.String("error", err.Error()))
			return nil, err
		}
	}

	log.Info("applied suggested priorities",
		slog.String("user_id", userID),
		slog.Int("tasks", len(tasks)),
		slog.Int("suggestions", len(suggestions)))
	return suggestions, nil
}

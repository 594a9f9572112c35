package assist

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/taskpilot-api/internal/domain"
)

var (
	jsonFence  = regexp.MustCompile("(?i)```json\n?")
	plainFence = regexp.MustCompile("```\n?")
)

// stripFences removes markdown code fences models like to wrap JSON in.
func stripFences(text string) string {
	text = jsonFence.ReplaceAllString(text, "")
	text = plainFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

var errMissingField = errors.New("missing field")

// summaryPayload is the model's answer to the summary prompt.
type summaryPayload struct {
	Summary       *string `json:"summary"`
	EstimatedTime *string `json:"estimatedTime"`
}

type priorityPayload struct {
	Index    *int    `json:"index"`
	Priority *string `json:"priority"`
	Reason   *string `json:"reason"`
}

type descriptionPayload struct {
	Description *string  `json:"description"`
	Confidence  *float64 `json:"confidence"`
}

func decodeSummary(text string, total int) (*TaskSummary, error) {
	var p summaryPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, err
	}
	if p.Summary == nil || strings.TrimSpace(*p.Summary) == "" {
		return nil, fmt.Errorf("%w: summary", errMissingField)
	}

	summary := &TaskSummary{Summary: *p.Summary, TotalPending: total}
	if p.EstimatedTime != nil && strings.TrimSpace(*p.EstimatedTime) != "" {
		summary.EstimatedTime = p.EstimatedTime
	}
	return summary, nil
}

// decodePriorities maps the model's indices back onto tasks. Any invalid
// entry rejects the whole answer.
func decodePriorities(text string, tasks []*domain.Task) ([]PrioritySuggestion, error) {
	var items []priorityPayload
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}

	out := make([]PrioritySuggestion, 0, len(items))
	for i, item := range items {
		if item.Index == nil {
			return nil, fmt.Errorf("%w: entry %d: index", errMissingField, i)
		}
		if item.Priority == nil {
			return nil, fmt.Errorf("%w: entry %d: priority", errMissingField, i)
		}
		if item.Reason == nil {
			return nil, fmt.Errorf("%w: entry %d: reason", errMissingField, i)
		}
		if *item.Index < 0 || *item.Index >= len(tasks) {
			return nil, fmt.Errorf("entry %d: index %d out of range [0,%d)", i, *item.Index, len(tasks))
		}
		priority, err := domain.ParseTaskPriority(*item.Priority)
		if err != nil {
			return nil, fmt.Errorf("entry %d: unknown priority %q", i, *item.Priority)
		}

		out = append(out, PrioritySuggestion{
			TaskID:   tasks[*item.Index].ID,
			Priority: priority,
			Reason:   *item.Reason,
		})
	}
	return out, nil
}

func decodeDescription(text string) (*DescriptionCompletion, error) {
	var p descriptionPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, err
	}
	if p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		return nil, fmt.Errorf("%w: description", errMissingField)
	}
	if p.Confidence == nil {
		return nil, fmt.Errorf("%w: confidence", errMissingField)
	}
	if *p.Confidence < 0 || *p.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v outside [0,1]", *p.Confidence)
	}
	return &DescriptionCompletion{Description: *p.Description, Confidence: *p.Confidence}, nil
}

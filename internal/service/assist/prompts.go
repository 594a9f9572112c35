package assist

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/taskpilot-api/internal/domain"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// Template names.
const (
	summaryPrompt     = "summary.tmpl"
	prioritiesPrompt  = "priorities.tmpl"
	descriptionPrompt = "description.tmpl"
)

// promptTask is the view of a task rendered into prompts.
type promptTask struct {
	Index       int
	ID          string
	Title       string
	Description string
}

func promptTasks(tasks []*domain.Task) []promptTask {
	out := make([]promptTask, len(tasks))
	for i, t := range tasks {
		out[i] = promptTask{Index: i, ID: t.ID.String(), Title: t.Title}
		if t.Description != nil {
			out[i].Description = *t.Description
		}
	}
	return out
}

func renderPrompt(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

func buildSummaryPrompt(tasks []*domain.Task) (string, error) {
	return renderPrompt(summaryPrompt, struct{ Tasks []promptTask }{promptTasks(tasks)})
}

func buildPrioritiesPrompt(tasks []*domain.Task) (string, error) {
	return renderPrompt(prioritiesPrompt, struct{ Tasks []promptTask }{promptTasks(tasks)})
}

func buildDescriptionPrompt(title string) (string, error) {
	return renderPrompt(descriptionPrompt, struct{ Title string }{title})
}

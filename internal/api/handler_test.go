package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskpilot-api/internal/api/shared"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/platform/memory"
	"github.com/phrazzld/taskpilot-api/internal/service"
	"github.com/phrazzld/taskpilot-api/internal/service/assist"
	"github.com/stretchr/testify/require"
)

// testUserHeader names the user a test request acts as.
const testUserHeader = "X-Test-User"

// stubProvider returns canned model output.
type stubProvider struct {
	mu     sync.Mutex
	output string
	err    error
	calls  int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(context.Context, string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.output, p.err
}

type testServer struct {
	router   http.Handler
	tasks    service.TaskService
	provider *stubProvider
}

// newTestServer wires the handlers to in-memory services. Requests carrying
// testUserHeader are treated as authenticated by that user.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.NewTestLogger()
	tasks, err := service.NewTaskService(memory.NewTaskStore(), log)
	require.NoError(t, err)

	provider := &stubProvider{}
	assistService, err := assist.NewService(provider, tasks, log)
	require.NoError(t, err)

	taskHandler := NewTaskHandler(tasks, log)
	aiHandler := NewAIHandler(assistService, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			if userID := r.Header.Get(testUserHeader); userID != "" {
				ctx = shared.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{id}", taskHandler.GetTask)
		r.Patch("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
		r.Post("/{id}/restore", taskHandler.RestoreTask)
	})
	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/summary", aiHandler.Summarize)
		r.Post("/priorities", aiHandler.SuggestPriorities)
		r.Post("/complete-description", aiHandler.CompleteDescription)
	})

	return &testServer{router: r, tasks: tasks, provider: provider}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// decodeData unmarshals the "data" member of a success envelope into v.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), rr.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

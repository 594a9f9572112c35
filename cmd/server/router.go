package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskpilot-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskpilot-api/internal/api/middleware"
	"github.com/phrazzld/taskpilot-api/internal/api/shared"
	"github.com/rs/cors"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(newCORS(app.config.Server.IsDevelopment(), app.config.Server.CORSOrigins).Handler)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	aiHandler := api.NewAIHandler(app.assistService, app.logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/{id}", taskHandler.GetTask)
			r.Patch("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
			r.Post("/{id}/restore", taskHandler.RestoreTask)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/summary", aiHandler.Summarize)
			r.Post("/priorities", aiHandler.SuggestPriorities)
			r.Post("/complete-description", aiHandler.CompleteDescription)
		})
	})

	return r
}

// securityHeaders sets conservative response headers on every reply.
func securityHeaders(next http.Handler) http.Handler {
	headers := middleware.SetHeader("X-Content-Type-Options", "nosniff")(
		middleware.SetHeader("X-Frame-Options", "DENY")(
			middleware.SetHeader("Referrer-Policy", "no-referrer")(next),
		),
	)
	return headers
}

// newCORS allows any origin in development and the configured list otherwise.
func newCORS(development bool, origins string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{apiMiddleware.TraceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if development {
		opts.AllowOriginFunc = func(string) bool { return true }
		return cors.New(opts)
	}

	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			opts.AllowedOrigins = append(opts.AllowedOrigins, origin)
		}
	}
	return cors.New(opts)
}

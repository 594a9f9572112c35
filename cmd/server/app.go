package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskpilot-api/internal/config"
	"github.com/phrazzld/taskpilot-api/internal/generation"
	"github.com/phrazzld/taskpilot-api/internal/platform/gemini"
	"github.com/phrazzld/taskpilot-api/internal/platform/memory"
	"github.com/phrazzld/taskpilot-api/internal/platform/openai"
	"github.com/phrazzld/taskpilot-api/internal/platform/postgres"
	"github.com/phrazzld/taskpilot-api/internal/service"
	"github.com/phrazzld/taskpilot-api/internal/service/assist"
	"github.com/phrazzld/taskpilot-api/internal/service/auth"
	"github.com/phrazzld/taskpilot-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService    auth.JWTService
	provider      generation.Provider
	taskService   service.TaskService
	assistService assist.Service
}

// newApplication creates a new application instance with all dependencies initialized.
// A nil db selects the in-memory stores.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	if db != nil {
		app.userStore = postgres.NewPostgresUserStore(db, logger)
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	} else {
		app.userStore = memory.NewUserStore()
		app.taskStore = memory.NewTaskStore()
	}

	base, err := newProvider(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	app.provider, err = generation.NewGuardedProvider(base, generation.GuardConfig{
		Timeout:     cfg.LLM.Timeout(),
		MaxFailures: uint32(cfg.LLM.BreakerMaxFailures),
		OpenTimeout: cfg.LLM.BreakerOpenTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to guard LLM provider: %w", err)
	}
	logger.Info("LLM provider initialized",
		"provider", app.provider.Name(),
		"model", cfg.LLM.ModelName)

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.assistService, err = assist.NewService(app.provider, app.taskService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assist service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newProvider builds the text-generation backend named by cfg.Provider.
func newProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Provider, error) {
	switch cfg.Provider {
	case gemini.ProviderName:
		return gemini.NewProvider(ctx, gemini.Config{
			APIKey:        cfg.GeminiAPIKey,
			Model:         cfg.ModelName,
			Temperature:   cfg.Temperature,
			JSONResponses: true,
		}, logger)
	case openai.ProviderName:
		return openai.NewProvider(openai.Config{
			APIKey:        cfg.OpenAIAPIKey,
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.ModelName,
			Temperature:   cfg.Temperature,
			JSONResponses: true,
		}, &http.Client{}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

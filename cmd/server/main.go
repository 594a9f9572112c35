// Package main implements the entry point for the TaskPilot API server,
// which manages users' tasks and offers LLM-backed assistance on them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskpilot-api/internal/config"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/phrazzld/taskpilot-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run a database migration command (up, down, status, version, reset) and exit",
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateCmd != "" {
		if err := runMigrationCommand(ctx, cfg, appLogger, *migrateCmd); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Server terminated", "error", err)
		os.Exit(1)
	}
}

// run builds the application and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"database_driver", cfg.Database.Driver,
		"llm_provider", cfg.LLM.Provider)

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if db != nil && cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// runMigrationCommand executes a single goose command against the configured database.
func runMigrationCommand(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	log.Info("Executing migrations", "command", command)
	return postgres.RunMigration(ctx, db, log, command)
}

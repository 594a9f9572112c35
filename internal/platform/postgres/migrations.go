package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir is the directory inside the embedded filesystem holding the goose migrations.
const MigrationsDir = "migrations"

// gooseLogger adapts the goose logger interface to slog.
// Fatalf does not exit; goose returns the error to the caller.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func configureGoose(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{logger: logger.With(slog.String("component", "migrations"))})
	return goose.SetDialect("postgres")
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return RunMigration(ctx, db, logger, "up")
}

// RunMigration executes a goose command (up, down, status, version, reset)
// against db using the embedded migrations.
func RunMigration(ctx context.Context, db *sql.DB, logger *slog.Logger, command string) error {
	if err := configureGoose(logger); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}

	switch command {
	case "up", "down", "status", "version", "reset":
	default:
		return fmt.Errorf("unsupported migration command %q", command)
	}

	if err := goose.RunContext(ctx, command, db, MigrationsDir); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

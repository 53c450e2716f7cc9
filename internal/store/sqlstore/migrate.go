package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/admin-mock-backend/internal/store/sqlstore/migrations"
	"github.com/pressly/goose/v3"
)

const migrationTable = "schema_migrations"

// Migrate applies every pending embedded migration.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.prepareGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (s *Store) Rollback(ctx context.Context) error {
	if err := s.prepareGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, s.sqlDB, "."); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (s *Store) Version(ctx context.Context) (int64, error) {
	if err := s.prepareGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, s.sqlDB)
}

func (s *Store) prepareGoose() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("goose dialect %q: %w", s.dialect, err)
	}
	return nil
}

// SetMigrationLogger routes goose output through lg.
func SetMigrationLogger(lg *slog.Logger) {
	goose.SetLogger(gooseLogger{lg: lg})
}

type gooseLogger struct {
	lg *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.lg.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	g.lg.Error(msg)
	panic(msg)
}

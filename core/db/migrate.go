package db

import (
	"context"
	"fmt"
	"log/slog"

	"dojo.app/platform/core/db/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func (db *DB) migrationProvider() (*goose.Provider, func() error, error) {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("creating migration provider: %w", err)
	}
	return provider, sqlDB.Close, nil
}

// MigrateUp applies every pending migration.
func (db *DB) MigrateUp(ctx context.Context) error {
	provider, closeFn, err := db.migrationProvider()
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	for _, r := range results {
		slog.InfoContext(ctx, "migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(ctx context.Context) error {
	provider, closeFn, err := db.migrationProvider()
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	result, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	if result != nil {
		slog.InfoContext(ctx, "migration rolled back", "version", result.Source.Version, "path", result.Source.Path)
	}
	return nil
}

func (db *DB) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	provider, closeFn, err := db.migrationProvider()
	if err != nil {
		return nil, err
	}
	defer closeFn() //nolint:errcheck

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/core/config"
	"dojo.app/platform/core/db"
)

const usage = "usage: migrate up|down|status"

func main() {
	ctx := context.Background()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(config.ServiceTypeMigrate)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := run(ctx, database, os.Args[1]); err != nil {
		slog.ErrorContext(ctx, "migration failed", "command", os.Args[1], "error", err)
		database.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, database *db.DB, command string) error {
	switch command {
	case "up":
		return database.MigrateUp(ctx)
	case "down":
		return database.MigrateDown(ctx)
	case "status":
		statuses, err := database.MigrationStatus(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%-8s %d %s\n", state, s.Version, s.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (%s)", command, usage)
	}
}

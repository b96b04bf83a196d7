package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/migrations"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		action, steps, err := parseMigrateArgs(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			printUsage()
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := withDatabase(ctx, logger, func(db *gorm.DB, dbCfg *config.DBConfig) error {
			return runMigrate(ctx, logger, db, dbCfg, action, steps)
		}); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			cancel()
			os.Exit(1)
		}
		return

	case "list":
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := withDatabase(ctx, logger, func(db *gorm.DB, _ *config.DBConfig) error {
			return writeWaitlist(ctx, os.Stdout, waitlist.NewWaitlistRepository(db))
		}); err != nil {
			logger.Error("Failed to list waitlist", "error", err.Error())
			cancel()
			os.Exit(1)
		}
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func withDatabase(ctx context.Context, logger *log.Logger, fn func(*gorm.DB, *config.DBConfig) error) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	db, err := config.NewDatabase(ctx, logger, &settings.Database)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	return fn(db, &settings.Database)
}

func runMigrate(ctx context.Context, logger *log.Logger, db *gorm.DB, dbCfg *config.DBConfig, action string, steps int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB instance: %w", err)
	}

	cfg := migrations.Config{
		Dir:     strings.TrimSpace(dbCfg.MigrationsDir),
		Dialect: dbCfg.Dialect(),
		Logger:  logger,
	}

	switch action {
	case "down":
		return migrations.Down(ctx, sqlDB, cfg, steps)
	case "version":
		version, dirty, ok, err := migrations.Version(ctx, sqlDB, cfg)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no migrations applied")
			return nil
		}
		fmt.Printf("version %d (dirty=%t)\n", version, dirty)
		return nil
	default:
		return migrations.Up(ctx, sqlDB, cfg)
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up]       Apply all pending SQL migrations")
	fmt.Println("  migrate down N     Roll back N migrations")
	fmt.Println("  migrate version    Print the current schema version")
	fmt.Println("  list               Print the waitlist as id,email,signup_date lines, newest first")
}

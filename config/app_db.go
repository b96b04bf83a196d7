package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/migrations"
	"github.com/akeren/waitlist-api/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Dialect reports which migration flavour the configured database needs.
func (cfg *DBConfig) Dialect() migrations.Dialect {
	if strings.HasPrefix(cfg.URL, sqliteScheme) {
		return migrations.SQLite
	}
	return migrations.Postgres
}

// gormWriter routes gorm's statement log into the structured logger.
type gormWriter struct {
	logger *log.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn("Database statement", "detail", fmt.Sprintf(format, args...))
}

// NewGormLogger logs failed and slow statements with placeholders instead of
// bound values, so submitted emails never reach the log.
func NewGormLogger(logger *log.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}

func NewDatabase(ctx context.Context, logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	dialector, err := buildDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger),
	}

	policy := retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: cfg.ConnectAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	})

	var gdb *gorm.DB
	attempt := 0
	err = policy.Execute(ctx, func(ctx context.Context) error {
		attempt++
		db, openErr := openAndPing(ctx, dialector, gormConfig, cfg)
		if openErr != nil {
			logger.Warn("Database connection attempt failed", "attempt", attempt, "error", openErr)
			return openErr
		}
		gdb = db
		return nil
	})
	if err != nil {
		logger.Error("Failed to connect to database", "attempts", attempt, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established successfully", "dialect", cfg.Dialect())
	return gdb, nil
}

func openAndPing(ctx context.Context, dialector gorm.Dialector, gormConfig *gorm.Config, cfg *DBConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Dialect() == migrations.SQLite {
		// SQLite allows one writer; a single connection also keeps :memory: shared.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return gdb, nil
}

func buildDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	if strings.HasPrefix(cfg.URL, sqliteScheme) {
		path := strings.TrimPrefix(cfg.URL, sqliteScheme)
		if path == "" {
			return nil, fmt.Errorf("DATABASE_URL %q has no sqlite path", cfg.URL)
		}
		logger.Info("Using SQLite database", "path", path)
		return sqlite.Open(path), nil
	}

	dsn, err := buildPostgresDSN(logger, cfg)
	if err != nil {
		return nil, err
	}
	return postgres.Open(dsn), nil
}

func buildPostgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if cfg.URL != "" {
		logger.Info("Using DATABASE_URL for database connection")
		return cfg.URL, nil
	}

	host := sanitizeEnv(cfg.Host)
	port := sanitizeEnv(cfg.Port)
	user := sanitizeEnv(cfg.User)
	dbName := sanitizeEnv(cfg.Name)

	missing := []string{}
	if host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if port == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if user == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars (or set DATABASE_URL): %s", strings.Join(missing, ", "))
	}

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", cfg.SSLMode,
	)

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, sanitizeEnv(cfg.Password), dbName, cfg.SSLMode,
	), nil
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database schema is up to date")

	return nil
}

// PingDatabase checks that a pooled connection can reach the database.
func PingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}

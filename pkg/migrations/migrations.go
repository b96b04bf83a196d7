package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Dialect names the migrate database driver and the SQL directory flavour.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// DefaultDir returns the checked-in migration directory for a dialect.
func DefaultDir(d Dialect) string {
	if d == SQLite {
		return filepath.Join("migrations", "sqlite")
	}
	return filepath.Join("migrations", "postgres")
}

type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	if cfg.Dialect == SQLite {
		return sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: cfg.MigrationsTable})
	}
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL string, dialect Dialect, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, string(dialect), driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	Dialect         Dialect
	MigrationsTable string
	Logger          Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.Dialect == "" {
		cfg.Dialect = Postgres
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = DefaultDir(cfg.Dialect)
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
}

func (cfg Config) info(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Info(msg, args...)
	}
}

func (cfg Config) warn(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Warn(msg, args...)
	}
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	changed, err := run(ctx, db, cfg, "up", func(m migrator) error { return m.Up() })
	if changed {
		cfg.info("Migrations applied successfully")
	}
	return err
}

// Down rolls back the given number of migrations.
func Down(ctx context.Context, db *sql.DB, cfg Config, steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrations: down steps must be positive, got %d", steps)
	}
	changed, err := run(ctx, db, cfg, "down", func(m migrator) error { return m.Steps(-steps) })
	if changed {
		cfg.info("Migrations rolled back", "steps", steps)
	}
	return err
}

// Version reports the applied schema version. ok is false when no migration
// has run yet.
func Version(ctx context.Context, db *sql.DB, cfg Config) (version uint, dirty bool, ok bool, err error) {
	_, err = run(ctx, db, cfg, "version", func(m migrator) error {
		v, d, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return verr
		}
		version, dirty, ok = v, d, true
		return nil
	})
	return version, dirty, ok, err
}

// run reports whether fn changed the schema.
func run(ctx context.Context, db *sql.DB, cfg Config, op string, fn func(migrator) error) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	cfg.applyDefaults()

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return false, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps the file:// URL valid on Windows.
	sourceURL := (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return false, fmt.Errorf("migrations: %s driver: %w", cfg.Dialect, err)
	}

	m, err := migratorFactory(sourceURL, cfg.Dialect, driver)
	if err != nil {
		return false, fmt.Errorf("migrations: init: %w", err)
	}
	closeOnce := sync.Once{}
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	cfg.info("Running SQL migrations", "op", op, "dir", absDir, "dialect", cfg.Dialect, "table", cfg.MigrationsTable)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(m)
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only interrupt.
		closeMigrator()
		return false, ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.info("No migrations to apply")
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("migrations: %s: %w", op, err)
		}
	}

	return true, nil
}

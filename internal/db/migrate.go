package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/udisondev/arenafield/internal/db/migrations"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// RunMigrations runs goose migrations on the given DSN.
// driver is DriverPostgres or DriverSQLite (dsn is then a file path).
func RunMigrations(ctx context.Context, driver, dsn string) error {
	sqlDriver, dialect, err := gooseTarget(driver)
	if err != nil {
		return err
	}

	sqlDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrateDB(ctx, sqlDB, dialect)
}

func migrateDB(ctx context.Context, sqlDB *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// gooseTarget maps a configured driver to the database/sql driver name and goose dialect.
func gooseTarget(driver string) (sqlDriver, dialect string, err error) {
	switch driver {
	case DriverPostgres:
		return "pgx", "postgres", nil
	case DriverSQLite:
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("unsupported driver %q", driver)
	}
}

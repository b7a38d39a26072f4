package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPostgres applies migrations, connects a pgx pool to dsn and returns a
// repository owning that pool. Close on the repository closes the pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresPropertyRepository, error) {
	if err := RunMigrations(ctx, DriverPostgres, dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return NewPostgresPropertyRepository(pool), nil
}

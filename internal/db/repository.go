package db

import (
	"context"
	"fmt"

	"github.com/udisondev/arenafield/internal/model"
)

// PropertyRepository persists item-granted ship properties and cast counters.
type PropertyRepository interface {
	LoadProperties(ctx context.Context, playerName string) ([]model.ShipProperty, error)
	SaveProperty(ctx context.Context, playerName string, prop model.ShipProperty) error
	DeleteProperties(ctx context.Context, playerName string) error

	// RecordCast increments the cast counter of player for a field type in zone.
	RecordCast(ctx context.Context, playerName, zone, fieldType string) error
	// CastCount returns the cast counter (0 if none).
	CastCount(ctx context.Context, playerName, zone, fieldType string) (int, error)

	Close() error
}

// Open opens the repository for driver and applies migrations.
func Open(ctx context.Context, driver, dsn string) (PropertyRepository, error) {
	switch driver {
	case DriverPostgres:
		repo, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case DriverSQLite:
		repo, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("opening repository: unsupported driver %q", driver)
	}
}

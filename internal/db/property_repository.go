package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/arenafield/internal/model"
)

// PostgresPropertyRepository реализует PropertyRepository для PostgreSQL.
type PostgresPropertyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPropertyRepository создаёт новый PostgreSQL repository.
func NewPostgresPropertyRepository(pool *pgxpool.Pool) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{pool: pool}
}

// LoadProperties загружает все свойства игрока.
func (r *PostgresPropertyRepository) LoadProperties(ctx context.Context, playerName string) ([]model.ShipProperty, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ship, name, value FROM ship_properties
		 WHERE player_name = $1 ORDER BY ship, name`,
		strings.ToLower(playerName),
	)
	if err != nil {
		return nil, fmt.Errorf("querying properties for %q: %w", playerName, err)
	}
	defer rows.Close()

	props := make([]model.ShipProperty, 0, 8)
	for rows.Next() {
		var (
			ship  int32
			sp    model.ShipProperty
			value int32
		)
		if err := rows.Scan(&ship, &sp.Name, &value); err != nil {
			return nil, fmt.Errorf("scanning property row: %w", err)
		}
		sp.Ship = model.Ship(ship)
		sp.Value = value
		props = append(props, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}
	return props, nil
}

// SaveProperty сохраняет значение свойства (upsert).
func (r *PostgresPropertyRepository) SaveProperty(ctx context.Context, playerName string, prop model.ShipProperty) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ship_properties (player_name, ship, name, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (player_name, ship, name) DO UPDATE SET value = EXCLUDED.value`,
		strings.ToLower(playerName), int32(prop.Ship), model.NormalizePropertyName(prop.Name), prop.Value,
	)
	if err != nil {
		return fmt.Errorf("saving property %q for %q: %w", prop.Name, playerName, err)
	}
	return nil
}

// DeleteProperties удаляет все свойства игрока.
func (r *PostgresPropertyRepository) DeleteProperties(ctx context.Context, playerName string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM ship_properties WHERE player_name = $1`, strings.ToLower(playerName))
	if err != nil {
		return fmt.Errorf("deleting properties for %q: %w", playerName, err)
	}
	return nil
}

// RecordCast увеличивает счётчик запусков.
func (r *PostgresPropertyRepository) RecordCast(ctx context.Context, playerName, zone, fieldType string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO field_casts (player_name, zone, field_type, casts)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (player_name, zone, field_type) DO UPDATE SET casts = field_casts.casts + 1`,
		strings.ToLower(playerName), zone, strings.ToLower(fieldType),
	)
	if err != nil {
		return fmt.Errorf("recording cast for %q: %w", playerName, err)
	}
	return nil
}

// CastCount возвращает счётчик запусков.
func (r *PostgresPropertyRepository) CastCount(ctx context.Context, playerName, zone, fieldType string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT casts FROM field_casts WHERE player_name = $1 AND zone = $2 AND field_type = $3`,
		strings.ToLower(playerName), zone, strings.ToLower(fieldType),
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("querying cast count for %q: %w", playerName, err)
	}
	return n, nil
}

// Close закрывает pool.
func (r *PostgresPropertyRepository) Close() error {
	r.pool.Close()
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/udisondev/arenafield/internal/model"
)

// SQLitePropertyRepository реализует PropertyRepository поверх встроенной SQLite.
type SQLitePropertyRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLitePropertyRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("opening sqlite: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	// Один писатель: SQLite сериализует запись на уровне файла.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if err := migrateDB(ctx, sqlDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLitePropertyRepository{db: sqlDB}, nil
}

// LoadProperties загружает все свойства игрока.
func (r *SQLitePropertyRepository) LoadProperties(ctx context.Context, playerName string) ([]model.ShipProperty, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ship, name, value FROM ship_properties
		 WHERE player_name = ? ORDER BY ship, name`,
		strings.ToLower(playerName),
	)
	if err != nil {
		return nil, fmt.Errorf("querying properties for %q: %w", playerName, err)
	}
	defer rows.Close()

	props := make([]model.ShipProperty, 0, 8)
	for rows.Next() {
		var (
			ship  int
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
func (r *SQLitePropertyRepository) SaveProperty(ctx context.Context, playerName string, prop model.ShipProperty) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ship_properties (player_name, ship, name, value)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (player_name, ship, name) DO UPDATE SET value = excluded.value`,
		strings.ToLower(playerName), int(prop.Ship), model.NormalizePropertyName(prop.Name), prop.Value,
	)
	if err != nil {
		return fmt.Errorf("saving property %q for %q: %w", prop.Name, playerName, err)
	}
	return nil
}

// DeleteProperties удаляет все свойства игрока.
func (r *SQLitePropertyRepository) DeleteProperties(ctx context.Context, playerName string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ship_properties WHERE player_name = ?`, strings.ToLower(playerName))
	if err != nil {
		return fmt.Errorf("deleting properties for %q: %w", playerName, err)
	}
	return nil
}

// RecordCast увеличивает счётчик запусков.
func (r *SQLitePropertyRepository) RecordCast(ctx context.Context, playerName, zone, fieldType string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO field_casts (player_name, zone, field_type, casts)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT (player_name, zone, field_type) DO UPDATE SET casts = casts + 1`,
		strings.ToLower(playerName), zone, strings.ToLower(fieldType),
	)
	if err != nil {
		return fmt.Errorf("recording cast for %q: %w", playerName, err)
	}
	return nil
}

// CastCount возвращает счётчик запусков.
func (r *SQLitePropertyRepository) CastCount(ctx context.Context, playerName, zone, fieldType string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT casts FROM field_casts WHERE player_name = ? AND zone = ? AND field_type = ?`,
		strings.ToLower(playerName), zone, strings.ToLower(fieldType),
	).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("querying cast count for %q: %w", playerName, err)
	}
	return n, nil
}

// Close закрывает базу.
func (r *SQLitePropertyRepository) Close() error {
	return r.db.Close()
}

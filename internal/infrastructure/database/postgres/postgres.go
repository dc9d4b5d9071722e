package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/wichananm65/store-catalog/internal/platform/retry"
)

var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

// pingRetry covers a database that is still starting, as in docker compose.
var pingRetry = retry.Config{
	MaxAttempts: 6,
	Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
}

// Open connects through the pgx stdlib driver and waits for the server to
// answer a ping.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	const op = "postgres.Open"

	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := Ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

// Ping retries db.PingContext with backoff.
func Ping(ctx context.Context, db *sql.DB) error {
	attempt := 0
	return retry.Do(ctx, pingRetry, func() error {
		attempt++
		err := db.PingContext(ctx)
		if err != nil {
			slog.Warn("database not ready", "op", "postgres.Ping", "attempt", attempt, "err", err)
		}
		return err
	})
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		details TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		session_id TEXT PRIMARY KEY,
		lines JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		zip TEXT,
		country TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		lines JSONB NOT NULL DEFAULT '[]'
	)`,
}

// EnsureSchema creates the store tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const op = "postgres.EnsureSchema"

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

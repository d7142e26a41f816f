package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const defaultDSN = "user=postgres dbname=postgres password=password sslmode=disable"

// InitDB opens and pings the Postgres database at url.
func InitDB(ctx context.Context, url string) (*sql.DB, error) {
	connStr := url
	if connStr == "" {
		connStr = defaultDSN
	}
	if !strings.Contains(connStr, "sslmode=") &&
		(strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")) {
		sep := "?"
		if strings.Contains(connStr, "?") {
			sep = "&"
		}
		connStr += sep + "sslmode=require"
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT now()`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		grade TEXT NOT NULL,
		width_mm DOUBLE PRECISION NOT NULL,
		height_mm DOUBLE PRECISION NOT NULL,
		span_m DOUBLE PRECISION NOT NULL,
		fire_min INTEGER NOT NULL DEFAULT 0,
		passed BOOLEAN NOT NULL,
		summary TEXT NOT NULL,
		input JSONB NOT NULL,
		result JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS evaluations_user_created_idx ON evaluations (user_id, created_at DESC)`,
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

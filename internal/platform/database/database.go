// Package database provides PostgreSQL connection management via pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cpacc-prep/studybank/internal/platform/config"
)

// Schema creates the tables the server and the seeder use. It is safe to run
// on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS questions (
	id               BIGINT PRIMARY KEY,
	category_code    TEXT NOT NULL,
	category_name    TEXT NOT NULL,
	subcategory_code TEXT NOT NULL,
	subcategory_name TEXT NOT NULL,
	subject          TEXT,
	question_text    TEXT NOT NULL,
	correct_answer   TEXT NOT NULL,
	distractor_1     TEXT NOT NULL,
	distractor_2     TEXT NOT NULL,
	distractor_3     TEXT NOT NULL,
	rationale        TEXT
);
CREATE INDEX IF NOT EXISTS questions_subcategory_idx ON questions (subcategory_code);

CREATE TABLE IF NOT EXISTS feedback (
	id          UUID PRIMARY KEY,
	name        TEXT,
	email       TEXT,
	message     TEXT NOT NULL,
	question_id TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// ParseURL validates a PostgreSQL connection URL.
func ParseURL(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	return cfg, nil
}

// poolConfig applies pool sizing to a parsed URL.
func poolConfig(c config.DatabaseConfig) (*pgxpool.Config, error) {
	cfg, err := ParseURL(c.URL)
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = int32(c.MaxConns)
	}
	if c.MinConns > 0 {
		cfg.MinConns = int32(c.MinConns)
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	return cfg, nil
}

// New creates a connection pool and verifies it with a ping.
func New(ctx context.Context, c config.DatabaseConfig) (*DB, error) {
	cfg, err := poolConfig(c)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// EnsureSchema creates missing tables.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

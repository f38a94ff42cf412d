// Package postgres opens the shared database handle and owns the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to PostgreSQL through the pgx stdlib driver and verifies the
// connection. Returns nil if the URL is empty (Postgres not configured).
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return db, nil
}

// Migrate applies the schema. The service owns two small tables plus the
// audit log; plain DDL keeps migrations reviewable without extra tooling.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS recommendations (
	id                 UUID PRIMARY KEY,
	user_id            UUID NOT NULL REFERENCES users (id),
	age                INT NOT NULL,
	income             BIGINT NOT NULL,
	dependents         INT NOT NULL,
	risk_tolerance     TEXT NOT NULL,
	policy_type        TEXT NOT NULL,
	coverage           BIGINT NOT NULL,
	term_years         INT NOT NULL,
	monthly_premium    BIGINT NOT NULL,
	income_multiplier  DOUBLE PRECISION NOT NULL,
	dependents_factor  DOUBLE PRECISION NOT NULL,
	risk_adjustment    DOUBLE PRECISION NOT NULL,
	explanation        TEXT NOT NULL,
	policy_version     TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_user_created
	ON recommendations (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	action     TEXT NOT NULL,
	metadata   JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_user_created
	ON audit_events (user_id, created_at DESC);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"loan-journey-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// JourneyEventsDDL creates the audit table written by the session recorder.
const JourneyEventsDDL = `
CREATE TABLE IF NOT EXISTS journey_events (
	id             UUID PRIMARY KEY,
	application_id TEXT        NOT NULL,
	event_type     TEXT        NOT NULL,
	from_step      TEXT,
	to_step        TEXT,
	details        JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_journey_events_application
	ON journey_events (application_id, created_at);
`

// PostgresClient wraps the audit database connection.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the journey_events table when it is missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, JourneyEventsDDL); err != nil {
		return fmt.Errorf("create journey_events: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"loan-journey-workers/internal/journey"

	"github.com/google/uuid"
)

const (
	EventStepChanged      = "step_changed"
	EventDocumentProgress = "document_progress"
)

// Event is one audited change of a journey.
type Event struct {
	ApplicationID string                 `json:"applicationId"`
	Type          string                 `json:"type"`
	From          journey.Step           `json:"from,omitempty"`
	To            journey.Step           `json:"to,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	At            time.Time              `json:"at"`
}

func eventFromChange(id string, c journey.Change, at time.Time) Event {
	e := Event{ApplicationID: id, From: c.From, To: c.To, At: at}
	switch c.Kind {
	case journey.ChangeDocument:
		e.Type = EventDocumentProgress
		e.Details = map[string]interface{}{
			"document": string(c.Document),
			"uploaded": c.Uploaded,
		}
	default:
		e.Type = EventStepChanged
	}
	return e
}

// Recorder writes audit events.
type Recorder interface {
	Record(ctx context.Context, events []Event) error
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, []Event) error { return nil }

const insertEventSQL = `INSERT INTO journey_events (id, application_id, event_type, from_step, to_step, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// PostgresRecorder appends events to the journey_events table, one
// transaction per job.
type PostgresRecorder struct {
	db *sql.DB
}

func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range events {
		var details interface{}
		if len(e.Details) > 0 {
			raw, err := json.Marshal(e.Details)
			if err != nil {
				return fmt.Errorf("encode audit details: %w", err)
			}
			details = raw
		}
		if _, err := tx.ExecContext(ctx, insertEventSQL,
			uuid.NewString(), e.ApplicationID, e.Type,
			nullStep(e.From), nullStep(e.To), details, e.At,
		); err != nil {
			return fmt.Errorf("insert audit event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit tx: %w", err)
	}
	return nil
}

func nullStep(s journey.Step) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != ""}
}

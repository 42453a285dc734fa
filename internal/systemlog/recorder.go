package systemlog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRecorder writes records into system_logs.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new PGRecorder.
func NewRecorder(pool *pgxpool.Pool) *PGRecorder {
	return &PGRecorder{pool: pool}
}

// Record persists the log entry.
func (l *PGRecorder) Record(ctx context.Context, entry Entry) error {
	if l == nil {
		return errors.New("system log recorder not initialised")
	}
	if entry.Action == "" || entry.Entity == "" {
		return errors.New("system log requires action/entity")
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO system_logs (actor_id, action, entity, entity_id, meta, duration_ms, success, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metaJSON, entry.DurationMS, entry.Success, occurredAt)
	return err
}

var _ Recorder = (*PGRecorder)(nil)

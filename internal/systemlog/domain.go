package systemlog

import (
	"context"
	"time"
)

// Entry represents a record stored in system_logs.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    *int64         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Success    bool           `json:"success"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Recorder is the narrow sink services use around data mutations.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Noop discards entries; used where observability is not wired.
type Noop struct{}

// Record implements Recorder.
func (Noop) Record(context.Context, Entry) error { return nil }

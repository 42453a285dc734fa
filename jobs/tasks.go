package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeReconSnapshot records the nightly reconciliation counters.
	TaskTypeReconSnapshot = "recon:snapshot"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewReconSnapshotTask constructs the nightly snapshot task. It carries no
// payload; the handler reads current state.
func NewReconSnapshotTask() *asynq.Task {
	return asynq.NewTask(TaskTypeReconSnapshot, nil)
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks. Delivery is a
// logged stub; the notification row is the user-facing artifact and SMTP
// wiring slots in here when an upstream relay is available.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Default().Info("send email",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject),
	)
	return nil
}

// SnapshotRunner is implemented by the reconciliation service.
type SnapshotRunner interface {
	Snapshot(ctx context.Context) error
}

// NewReconSnapshotHandler adapts the reconciliation snapshot to an Asynq
// handler. Metrics may be nil.
func NewReconSnapshotHandler(runner SnapshotRunner, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeReconSnapshot)
		return tracker.End(runner.Snapshot(ctx))
	}
}

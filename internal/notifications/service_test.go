package notifications

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/jobs"
)

type memoryNotificationsRepo struct {
	notifications []Notification
	emails        map[int64]string
	nextID        int64
}

func newMemoryNotificationsRepo() *memoryNotificationsRepo {
	return &memoryNotificationsRepo{emails: make(map[int64]string)}
}

func (r *memoryNotificationsRepo) List(ctx context.Context, recipientID int64, page, perPage int) ([]Notification, int, error) {
	var result []Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	return result, len(result), nil
}

func (r *memoryNotificationsRepo) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationsRepo) MarkRead(ctx context.Context, recipientID, id int64) error {
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return httpx.ErrNotFound
}

func (r *memoryNotificationsRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	var updated int64
	for i, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			r.notifications[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *memoryNotificationsRepo) Create(ctx context.Context, n Notification) (Notification, error) {
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r *memoryNotificationsRepo) EmailByProfile(ctx context.Context, profileID int64) (string, error) {
	return r.emails[profileID], nil
}

type captureEnqueuer struct {
	payloads []jobs.SendEmailPayload
	fail     bool
}

func (c *captureEnqueuer) EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	if c.fail {
		return nil, errors.New("queue down")
	}
	c.payloads = append(c.payloads, payload)
	return &asynq.TaskInfo{}, nil
}

func TestCreateEnqueuesEmail(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	repo.emails[5] = "rehber@satis.local"
	enq := &captureEnqueuer{}
	svc := NewService(slog.Default(), repo, enq, repo)

	created, err := svc.Create(context.Background(), Notification{
		RecipientID: 5, Title: "Yeni satış", Body: "Detaylar panelde",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, enq.payloads, 1)
	require.Equal(t, "rehber@satis.local", enq.payloads[0].To)
	require.Equal(t, "Yeni satış", enq.payloads[0].Subject)
}

func TestCreateSurvivesQueueFailure(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	repo.emails[5] = "rehber@satis.local"
	enq := &captureEnqueuer{fail: true}
	svc := NewService(slog.Default(), repo, enq, repo)

	created, err := svc.Create(context.Background(), Notification{RecipientID: 5, Title: "T"})
	require.NoError(t, err, "in-app notification is the source of truth")
	require.NotZero(t, created.ID)
}

func TestCreateSkipsEmailWithoutAddress(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	enq := &captureEnqueuer{}
	svc := NewService(slog.Default(), repo, enq, repo)

	_, err := svc.Create(context.Background(), Notification{RecipientID: 9, Title: "T"})
	require.NoError(t, err)
	require.Empty(t, enq.payloads)
}

func TestCreateValidation(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	svc := NewService(slog.Default(), repo, nil, nil)

	_, err := svc.Create(context.Background(), Notification{Title: "T"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Notification{RecipientID: 1, Title: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	svc := NewService(slog.Default(), repo, nil, nil)

	created, err := svc.Create(context.Background(), Notification{RecipientID: 5, Title: "T"})
	require.NoError(t, err)

	// Another recipient cannot mark it.
	require.ErrorIs(t, svc.MarkRead(context.Background(), 6, created.ID), httpx.ErrNotFound)
	require.NoError(t, svc.MarkRead(context.Background(), 5, created.ID))

	count, err := svc.UnreadCount(context.Background(), 5)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestMarkAllRead(t *testing.T) {
	repo := newMemoryNotificationsRepo()
	svc := NewService(slog.Default(), repo, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), Notification{RecipientID: 5, Title: "T"})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), Notification{RecipientID: 6, Title: "T"})
	require.NoError(t, err)

	updated, err := svc.MarkAllRead(context.Background(), 5)
	require.NoError(t, err)
	require.EqualValues(t, 3, updated)

	count, err := svc.UnreadCount(context.Background(), 6)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

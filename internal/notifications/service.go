package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/jobs"
)

// EmailEnqueuer hands outbound mail to the background queue. Satisfied by
// *jobs.Client.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// EmailLookup resolves a profile's email address.
type EmailLookup interface {
	EmailByProfile(ctx context.Context, profileID int64) (string, error)
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	enq    EmailEnqueuer
	emails EmailLookup
}

func NewService(logger *slog.Logger, repo Repository, enq EmailEnqueuer, emails EmailLookup) *Service {
	return &Service{logger: logger, repo: repo, enq: enq, emails: emails}
}

func (s *Service) List(ctx context.Context, recipientID int64, page, perPage int) ([]Notification, int, error) {
	return s.repo.List(ctx, recipientID, page, perPage)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid notification id", httpx.ErrValidation)
	}
	return s.repo.MarkRead(ctx, recipientID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

// Create stores the notification and, when possible, enqueues an email to
// the recipient. A failed enqueue never fails the create; the in-app row is
// the source of truth.
func (s *Service) Create(ctx context.Context, n Notification) (Notification, error) {
	if n.RecipientID <= 0 {
		return Notification{}, fmt.Errorf("%w: recipient is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(n.Title) == "" {
		return Notification{}, fmt.Errorf("%w: title is required", httpx.ErrValidation)
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return Notification{}, err
	}

	if s.enq != nil && s.emails != nil {
		email, err := s.emails.EmailByProfile(ctx, created.RecipientID)
		if err != nil || email == "" {
			if err != nil {
				s.logger.Warn("lookup recipient email", slog.Any("error", err), slog.Int64("recipient", created.RecipientID))
			}
			return created, nil
		}
		payload := jobs.SendEmailPayload{To: email, Subject: created.Title, Body: created.Body}
		if _, err := s.enq.EnqueueSendEmail(ctx, payload); err != nil {
			s.logger.Warn("enqueue notification email", slog.Any("error", err), slog.Int64("id", created.ID))
		}
	}
	return created, nil
}

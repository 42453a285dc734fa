package auth

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Inactive profiles
// fail the same way as bad credentials so account state is not leaked.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !acc.Profile.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Identity.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return acc, nil
}

// CurrentAccount resolves the session user string to an account.
func (s *Service) CurrentAccount(ctx context.Context, sessionUser string) (*Account, error) {
	identityID, err := strconv.ParseInt(sessionUser, 10, 64)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByIdentityID(ctx, identityID)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, identityID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, identityID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

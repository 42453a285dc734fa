package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
)

const minPasswordLength = 8

// ErrInconsistentState reports an identity left behind after its profile
// was already removed. It must surface to the operator for manual cleanup.
var ErrInconsistentState = errors.New("identity remains without a profile")

// Service handles user provisioning business logic.
type Service struct {
	repo    Repository
	logbook systemlog.Recorder
}

// NewService builds a Service instance.
func NewService(repo Repository, logbook systemlog.Recorder) *Service {
	if logbook == nil {
		logbook = systemlog.Noop{}
	}
	return &Service{repo: repo, logbook: logbook}
}

// CreateUserRequest carries the attributes for provisioning an account.
type CreateUserRequest struct {
	Email    string
	Password string
	FullName string
	Role     string
	GuideID  *int64
}

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", httpx.ErrValidation, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser provisions an identity and its role-tagged profile inside one
// transaction. A failed profile insert rolls the identity back, so no
// orphan identity or profile can survive a partial create.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if !rbac.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, req.Role)
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var identityID, profileID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.CreateIdentity(ctx, NewIdentity{Email: req.Email, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("create identity: %w", err)
		}
		identityID = id

		pid, err := repo.CreateProfile(ctx, NewProfile{
			IdentityID: identityID,
			FullName:   req.FullName,
			Role:       req.Role,
			GuideID:    req.GuideID,
		})
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		profileID = pid
		return nil
	})

	entry := systemlog.Entry{
		Action:     "user.create",
		Entity:     "profiles",
		EntityID:   strconv.FormatInt(profileID, 10),
		Meta:       map[string]any{"email": req.Email, "role": req.Role},
		DurationMS: time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	_ = s.logbook.Record(ctx, entry)

	if err != nil {
		return nil, err
	}
	return &User{
		ProfileID:  profileID,
		IdentityID: identityID,
		Email:      req.Email,
		FullName:   req.FullName,
		Role:       req.Role,
		GuideID:    req.GuideID,
		IsActive:   true,
	}, nil
}

// CreateAdmin provisions an account with the admin role.
func (s *Service) CreateAdmin(ctx context.Context, email, password, fullName string) (*User, error) {
	return s.CreateUser(ctx, CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     rbac.RoleAdmin,
	})
}

// CreateGuideAccount provisions a rehber account with an explicit guide
// link. The guide_id column is the steady-state mapping; name matching is
// never consulted here.
func (s *Service) CreateGuideAccount(ctx context.Context, guideID int64, email, password, fullName string) (*User, error) {
	guideName, err := s.repo.GuideName(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("verify guide: %w", err)
	}
	if _, err := s.repo.GetByGuide(ctx, guideID); err == nil {
		return nil, fmt.Errorf("%w: guide %d already has an account", httpx.ErrDuplicate, guideID)
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return nil, err
	}

	if fullName == "" {
		fullName = guideName
	}
	return s.CreateUser(ctx, CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     rbac.RoleGuide,
		GuideID:  &guideID,
	})
}

// RemoveGuideAccount deletes the profile row first and the identity after.
// When the identity deletion fails with the profile already gone the state
// is inconsistent and reported as ErrInconsistentState, never swallowed.
func (s *Service) RemoveGuideAccount(ctx context.Context, guideID int64) error {
	user, err := s.repo.GetByGuide(ctx, guideID)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.repo.DeleteProfile(ctx, user.ProfileID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	err = s.repo.DeleteIdentity(ctx, user.IdentityID)
	entry := systemlog.Entry{
		Action:     "user.guide.remove",
		Entity:     "profiles",
		EntityID:   strconv.FormatInt(user.ProfileID, 10),
		Meta:       map[string]any{"guide_id": guideID},
		DurationMS: time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	_ = s.logbook.Record(ctx, entry)

	if err != nil {
		return fmt.Errorf("%w: identity %d (profile already removed): %v", ErrInconsistentState, user.IdentityID, err)
	}
	return nil
}

// ResetGuidePassword replaces the password of a guide-linked identity.
func (s *Service) ResetGuidePassword(ctx context.Context, guideID int64, newPassword string) error {
	user, err := s.repo.GetByGuide(ctx, guideID)
	if err != nil {
		return err
	}
	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.IdentityID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	_ = s.logbook.Record(ctx, systemlog.Entry{
		Action:   "user.guide.reset_password",
		Entity:   "auth_identities",
		EntityID: strconv.FormatInt(user.IdentityID, 10),
		Success:  true,
	})
	return nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// LinkedGuideIDs returns guide IDs that already have linked accounts.
func (s *Service) LinkedGuideIDs(ctx context.Context) ([]int64, error) {
	return s.repo.LinkedGuideIDs(ctx)
}

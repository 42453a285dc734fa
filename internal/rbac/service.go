package rbac

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Actor describes the authenticated caller as seen by authorization.
type Actor struct {
	ProfileID  int64
	IdentityID int64
	Role       string
	GuideID    *int64
}

// Service resolves session users to their profile role.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs an rbac service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// ResolveActor loads the acting profile for a session user ID.
func (s *Service) ResolveActor(ctx context.Context, sessionUser string) (*Actor, error) {
	identityID, err := strconv.ParseInt(sessionUser, 10, 64)
	if err != nil {
		return nil, errors.New("rbac: malformed session user")
	}
	var actor Actor
	err = s.pool.QueryRow(ctx, `
		SELECT id, identity_id, role, guide_id
		FROM profiles
		WHERE identity_id = $1 AND is_active`, identityID).
		Scan(&actor.ProfileID, &actor.IdentityID, &actor.Role, &actor.GuideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("rbac: no active profile")
		}
		return nil, err
	}
	return &actor, nil
}

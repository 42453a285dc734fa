package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByIdentityID(ctx context.Context, identityID int64) (*Account, error)
	CreateSession(ctx context.Context, id string, identityID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountQuery = `
	SELECT i.id, i.email, i.password_hash, i.created_at, i.updated_at,
	       p.id, p.identity_id, p.full_name, p.role, p.guide_id, p.is_active, p.created_at, p.updated_at
	FROM auth_identities i
	JOIN profiles p ON p.identity_id = i.id`

func (r *PGRepository) scanAccount(row pgx.Row) (*Account, error) {
	var acc Account
	err := row.Scan(
		&acc.Identity.ID, &acc.Identity.Email, &acc.Identity.PasswordHash,
		&acc.Identity.CreatedAt, &acc.Identity.UpdatedAt,
		&acc.Profile.ID, &acc.Profile.IdentityID, &acc.Profile.FullName,
		&acc.Profile.Role, &acc.Profile.GuideID, &acc.Profile.IsActive,
		&acc.Profile.CreatedAt, &acc.Profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// FindByEmail fetches an account by identity email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.scanAccount(r.pool.QueryRow(ctx, accountQuery+` WHERE i.email = $1`, email))
}

// FindByIdentityID fetches an account by identity ID.
func (r *PGRepository) FindByIdentityID(ctx context.Context, identityID int64) (*Account, error) {
	return r.scanAccount(r.pool.QueryRow(ctx, accountQuery+` WHERE i.id = $1`, identityID))
}

// CreateSession persists a new login session in the database for auditing.
func (r *PGRepository) CreateSession(ctx context.Context, id string, identityID int64, expiresAt time.Time, ip, ua string) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, identity_id, created_at, expires_at, ip, ua)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`,
		id, identityID, now, expiresAt.UTC(), ip, ua)
	return err
}

// DeleteSession removes a session record from the database.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)

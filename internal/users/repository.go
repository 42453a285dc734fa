package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/db"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for user provisioning.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	CreateIdentity(ctx context.Context, identity NewIdentity) (int64, error)
	DeleteIdentity(ctx context.Context, identityID int64) error
	CreateProfile(ctx context.Context, profile NewProfile) (int64, error)
	DeleteProfile(ctx context.Context, profileID int64) error
	UpdatePassword(ctx context.Context, identityID int64, passwordHash string) error
	GetByGuide(ctx context.Context, guideID int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	LinkedGuideIDs(ctx context.Context) ([]int64, error)
	GuideName(ctx context.Context, guideID int64) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) CreateIdentity(ctx context.Context, identity NewIdentity) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO auth_identities (email, password_hash)
		VALUES ($1, $2)
		RETURNING id`, identity.Email, identity.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, httpx.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteIdentity(ctx context.Context, identityID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM auth_identities WHERE id = $1`, identityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) CreateProfile(ctx context.Context, profile NewProfile) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO profiles (identity_id, full_name, role, guide_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id`, profile.IdentityID, profile.FullName, profile.Role, profile.GuideID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, httpx.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteProfile(ctx context.Context, profileID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, identityID int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE auth_identities SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, identityID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const userQuery = `
	SELECT p.id, i.id, i.email, p.full_name, p.role, p.guide_id, p.is_active, p.created_at, p.updated_at
	FROM profiles p
	JOIN auth_identities i ON i.id = p.identity_id`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ProfileID, &u.IdentityID, &u.Email, &u.FullName, &u.Role, &u.GuideID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByGuide(ctx context.Context, guideID int64) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, userQuery+` WHERE p.guide_id = $1`, guideID))
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, userQuery+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ProfileID, &u.IdentityID, &u.Email, &u.FullName, &u.Role, &u.GuideID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repository) LinkedGuideIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT guide_id FROM profiles WHERE guide_id IS NOT NULL ORDER BY guide_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) GuideName(ctx context.Context, guideID int64) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT ad_soyad FROM rehberler WHERE id = $1`, guideID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", httpx.ErrNotFound
		}
		return "", err
	}
	return name, nil
}

package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, recipientID int64, page, perPage int) ([]Notification, int, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, recipientID, id int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	Create(ctx context.Context, n Notification) (Notification, error)
	EmailByProfile(ctx context.Context, profileID int64) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, recipientID int64, page, perPage int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`, recipientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, title, body, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, recipientID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	return result, total, rows.Err()
}

func (r *repository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID).Scan(&count)
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, recipientID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// EmailByProfile resolves the login email behind a profile. Returns an
// empty string when the profile has no identity row.
func (r *repository) EmailByProfile(ctx context.Context, profileID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `
		SELECT i.email FROM profiles p
		JOIN auth_identities i ON i.id = p.identity_id
		WHERE p.id = $1`, profileID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return email, nil
}

func (r *repository) Create(ctx context.Context, n Notification) (Notification, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at`,
		n.RecipientID, n.Title, n.Body).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

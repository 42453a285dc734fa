package guides

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Guide, int, error)
	ListAllActive(ctx context.Context) ([]Guide, error)
	Get(ctx context.Context, id int64) (Guide, error)
	Create(ctx context.Context, guide Guide) (Guide, error)
	Update(ctx context.Context, id int64, guide Guide) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Guide, int, error) {
	query := `SELECT id, ad_soyad, COALESCE(telefon, ''), aktif, created_at, updated_at FROM rehberler WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM rehberler WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND ad_soyad ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND aktif = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ad_soyad ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.PageSize(), filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Guide
	for rows.Next() {
		var g Guide
		if err := rows.Scan(&g.ID, &g.FullName, &g.Phone, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, g)
	}
	return result, total, rows.Err()
}

func (r *repository) ListAllActive(ctx context.Context) ([]Guide, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ad_soyad, COALESCE(telefon, ''), aktif, created_at, updated_at
		FROM rehberler WHERE aktif ORDER BY ad_soyad ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Guide
	for rows.Next() {
		var g Guide
		if err := rows.Scan(&g.ID, &g.FullName, &g.Phone, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Guide, error) {
	var g Guide
	err := r.pool.QueryRow(ctx, `
		SELECT id, ad_soyad, COALESCE(telefon, ''), aktif, created_at, updated_at
		FROM rehberler WHERE id = $1`, id).
		Scan(&g.ID, &g.FullName, &g.Phone, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Guide{}, httpx.ErrNotFound
		}
		return Guide{}, err
	}
	return g, nil
}

func (r *repository) Create(ctx context.Context, guide Guide) (Guide, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rehberler (ad_soyad, telefon, aktif)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, created_at, updated_at`,
		guide.FullName, guide.Phone, guide.IsActive).
		Scan(&guide.ID, &guide.CreatedAt, &guide.UpdatedAt)
	if err != nil {
		return Guide{}, err
	}
	return guide, nil
}

func (r *repository) Update(ctx context.Context, id int64, guide Guide) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rehberler SET ad_soyad = $2, telefon = NULLIF($3, ''), aktif = $4, updated_at = NOW()
		WHERE id = $1`, id, guide.FullName, guide.Phone, guide.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rehberler WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

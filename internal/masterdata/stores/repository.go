package stores

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
	List(ctx context.Context, filters shared.ListFilters) ([]StoreWithCompany, int, error)
	Get(ctx context.Context, id int64) (Store, error)
	Create(ctx context.Context, store Store) (Store, error)
	Update(ctx context.Context, id int64, store Store) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]StoreWithCompany, int, error) {
	query := `
		SELECT m.id, m.firma_id, m.ad, m.komisyon_orani, m.aktif, m.created_at, m.updated_at, f.ad
		FROM magazalar m
		JOIN firmalar f ON f.id = m.firma_id
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM magazalar m WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND m.ad ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CompanyID != nil {
		argCount++
		clause := ` AND m.firma_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.CompanyID)
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND m.aktif = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY m.ad ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.PageSize(), filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []StoreWithCompany
	for rows.Next() {
		var s StoreWithCompany
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.CommissionRate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.CompanyName); err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, `
		SELECT id, firma_id, ad, komisyon_orani, aktif, created_at, updated_at
		FROM magazalar WHERE id = $1`, id).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.CommissionRate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, httpx.ErrNotFound
		}
		return Store{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, store Store) (Store, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO magazalar (firma_id, ad, komisyon_orani, aktif)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		store.CompanyID, store.Name, store.CommissionRate, store.IsActive).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return Store{}, err
	}
	return store, nil
}

func (r *repository) Update(ctx context.Context, id int64, store Store) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE magazalar SET firma_id = $2, ad = $3, komisyon_orani = $4, aktif = $5, updated_at = NOW()
		WHERE id = $1`, id, store.CompanyID, store.Name, store.CommissionRate, store.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM magazalar WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

package products

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
	List(ctx context.Context, filters shared.ListFilters) ([]ProductWithCompany, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]ProductWithCompany, int, error) {
	query := `
		SELECT u.id, u.firma_id, u.ad, u.aktif, u.created_at, u.updated_at, f.ad
		FROM urunler u
		JOIN firmalar f ON f.id = u.firma_id
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM urunler u WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND u.ad ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CompanyID != nil {
		argCount++
		clause := ` AND u.firma_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.CompanyID)
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND u.aktif = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY u.ad ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.PageSize(), filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []ProductWithCompany
	for rows.Next() {
		var p ProductWithCompany
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.CompanyName); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, firma_id, ad, aktif, created_at, updated_at
		FROM urunler WHERE id = $1`, id).
		Scan(&p.ID, &p.CompanyID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO urunler (firma_id, ad, aktif)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		product.CompanyID, product.Name, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE urunler SET firma_id = $2, ad = $3, aktif = $4, updated_at = NOW()
		WHERE id = $1`, id, product.CompanyID, product.Name, product.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM urunler WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

package companies

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
	List(ctx context.Context, filters shared.ListFilters) ([]Company, int, error)
	Get(ctx context.Context, id int64) (Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	Update(ctx context.Context, id int64, company Company) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Company, int, error) {
	query := `SELECT id, ad, vergi_no, aktif, created_at, updated_at FROM firmalar WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM firmalar WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND ad ILIKE $` + strconv.Itoa(argCount)
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

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.PageSize())
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `
		SELECT id, ad, vergi_no, aktif, created_at, updated_at
		FROM firmalar WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, httpx.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, company Company) (Company, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO firmalar (ad, vergi_no, aktif)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		company.Name, company.TaxID, company.IsActive).
		Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

func (r *repository) Update(ctx context.Context, id int64, company Company) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE firmalar SET ad = $2, vergi_no = $3, aktif = $4, updated_at = NOW()
		WHERE id = $1`, id, company.Name, company.TaxID, company.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM firmalar WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "created_at":
		return "created_at " + dir
	default:
		return "ad " + dir
	}
}

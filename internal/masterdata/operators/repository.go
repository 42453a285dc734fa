package operators

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
	List(ctx context.Context, filters shared.ListFilters) ([]Operator, int, error)
	Get(ctx context.Context, id int64) (Operator, error)
	Create(ctx context.Context, operator Operator) (Operator, error)
	Update(ctx context.Context, id int64, operator Operator) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Operator, int, error) {
	query := `SELECT id, ad, aktif, created_at, updated_at FROM operatorler WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM operatorler WHERE 1=1`
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

	query += ` ORDER BY ad ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.PageSize(), filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Operator
	for rows.Next() {
		var o Operator
		if err := rows.Scan(&o.ID, &o.Name, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Operator, error) {
	var o Operator
	err := r.pool.QueryRow(ctx, `
		SELECT id, ad, aktif, created_at, updated_at FROM operatorler WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operator{}, httpx.ErrNotFound
		}
		return Operator{}, err
	}
	return o, nil
}

func (r *repository) Create(ctx context.Context, operator Operator) (Operator, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO operatorler (ad, aktif) VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		operator.Name, operator.IsActive).
		Scan(&operator.ID, &operator.CreatedAt, &operator.UpdatedAt)
	if err != nil {
		return Operator{}, err
	}
	return operator, nil
}

func (r *repository) Update(ctx context.Context, id int64, operator Operator) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE operatorler SET ad = $2, aktif = $3, updated_at = NOW() WHERE id = $1`,
		id, operator.Name, operator.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM operatorler WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

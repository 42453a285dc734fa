package tours

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
	List(ctx context.Context, filters shared.ListFilters) ([]TourWithOperator, int, error)
	Get(ctx context.Context, id int64) (Tour, error)
	Create(ctx context.Context, tour Tour) (Tour, error)
	Update(ctx context.Context, id int64, tour Tour) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]TourWithOperator, int, error) {
	query := `
		SELECT t.id, t.operator_id, t.ad, t.aktif, t.created_at, t.updated_at, o.ad
		FROM turlar t
		JOIN operatorler o ON o.id = t.operator_id
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM turlar t WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND t.ad ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.OperatorID != nil {
		argCount++
		clause := ` AND t.operator_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.OperatorID)
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND t.aktif = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY t.ad ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.PageSize(), filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []TourWithOperator
	for rows.Next() {
		var t TourWithOperator
		if err := rows.Scan(&t.ID, &t.OperatorID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &t.OperatorName); err != nil {
			return nil, 0, err
		}
		result = append(result, t)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Tour, error) {
	var t Tour
	err := r.pool.QueryRow(ctx, `
		SELECT id, operator_id, ad, aktif, created_at, updated_at
		FROM turlar WHERE id = $1`, id).
		Scan(&t.ID, &t.OperatorID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tour{}, httpx.ErrNotFound
		}
		return Tour{}, err
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, tour Tour) (Tour, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO turlar (operator_id, ad, aktif)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		tour.OperatorID, tour.Name, tour.IsActive).
		Scan(&tour.ID, &tour.CreatedAt, &tour.UpdatedAt)
	if err != nil {
		return Tour{}, err
	}
	return tour, nil
}

func (r *repository) Update(ctx context.Context, id int64, tour Tour) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE turlar SET operator_id = $2, ad = $3, aktif = $4, updated_at = NOW()
		WHERE id = $1`, id, tour.OperatorID, tour.Name, tour.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM turlar WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

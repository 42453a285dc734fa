package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

// ErrViewUnavailable marks the comparison view missing from the schema, a
// detectable precondition rather than a transient failure.
var ErrViewUnavailable = fmt.Errorf("%w: comparison view is not installed", httpx.ErrUnavailable)

const undefinedTable = "42P01"

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Row, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters Filters) ([]Row, error) {
	query := `
		SELECT satis_id, satis_tarihi, firma_id, firma_adi, magaza_id, magaza_adi,
		       urun_id, urun_adi,
		       magaza_bildirimi_var, rehber_bildirimi_var,
		       magaza_adet, magaza_tutar, rehber_adet, rehber_tutar
		FROM bildirim_karsilastirma WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.DateFrom != nil {
		argCount++
		query += ` AND satis_tarihi >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		query += ` AND satis_tarihi <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.DateTo)
	}
	if filters.CompanyID != nil {
		argCount++
		query += ` AND firma_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CompanyID)
	}
	if filters.StoreID != nil {
		argCount++
		query += ` AND magaza_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.StoreID)
	}
	query += ` ORDER BY satis_tarihi DESC, satis_id DESC, urun_id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return nil, ErrViewUnavailable
		}
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.SaleID, &row.SaleDate, &row.CompanyID, &row.CompanyName,
			&row.StoreID, &row.StoreName, &row.ProductID, &row.ProductName,
			&row.StoreExists, &row.GuideExists,
			&row.StoreCount, &row.StoreAmount, &row.GuideCount, &row.GuideAmount,
		); err != nil {
			return nil, err
		}
		row.Status = Classify(Input{
			StoreExists: row.StoreExists,
			GuideExists: row.GuideExists,
			StoreCount:  row.StoreCount,
			StoreAmount: row.StoreAmount,
			GuideCount:  row.GuideCount,
			GuideAmount: row.GuideAmount,
		})
		row.AmountDelta = AmountDelta(Input{StoreAmount: row.StoreAmount, GuideAmount: row.GuideAmount})
		result = append(result, row)
	}
	return result, rows.Err()
}

package sales

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/db"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Repository interface {
	List(ctx context.Context, filters Filters) ([]SaleDetail, int, error)
	Get(ctx context.Context, id int64) (Sale, error)
	Create(ctx context.Context, sale Sale) (Sale, error)
	Update(ctx context.Context, id int64, sale Sale) error
	Delete(ctx context.Context, id int64) error

	ListGuideItems(ctx context.Context, saleID int64) ([]GuideItem, error)
	ListGuideItemsByGuide(ctx context.Context, guideID int64) ([]GuideItem, error)
	GetGuideItem(ctx context.Context, itemID int64) (GuideItem, error)
	ReplaceGuideItems(ctx context.Context, saleID int64, items []GuideItem) error
	DeleteGuideItem(ctx context.Context, itemID int64) error
	UpdateGuideItemStatus(ctx context.Context, itemID int64, status string) error

	ListStoreItems(ctx context.Context, saleID int64) ([]StoreItem, error)
	ReplaceStoreItems(ctx context.Context, saleID int64, items []StoreItem) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (f Filters) pageSize() int {
	if f.Limit <= 0 {
		return defaultLimit
	}
	if f.Limit > maxLimit {
		return maxLimit
	}
	return f.Limit
}

func (f Filters) offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.pageSize()
}

func (r *repository) List(ctx context.Context, filters Filters) ([]SaleDetail, int, error) {
	query := `
		SELECT id, satis_tarihi, firma_id, magaza_id, operator_id, tur_id, rehber_id,
		       grup_pax, magaza_pax, created_at, updated_at,
		       firma_adi, magaza_adi, operator_adi, tur_adi, rehber_adi
		FROM satislar_detay_view WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM satislar_detay_view WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.DateFrom != nil {
		argCount++
		clause := ` AND satis_tarihi >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		clause := ` AND satis_tarihi <= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateTo)
	}
	if filters.StoreID != nil {
		argCount++
		clause := ` AND magaza_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.StoreID)
	}
	if filters.GuideID != nil {
		argCount++
		clause := ` AND rehber_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.GuideID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY satis_tarihi DESC, id DESC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.pageSize(), filters.offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []SaleDetail
	for rows.Next() {
		var s SaleDetail
		if err := rows.Scan(
			&s.ID, &s.SaleDate, &s.CompanyID, &s.StoreID, &s.OperatorID, &s.TourID, &s.GuideID,
			&s.GroupPax, &s.StorePax, &s.CreatedAt, &s.UpdatedAt,
			&s.CompanyName, &s.StoreName, &s.OperatorName, &s.TourName, &s.GuideName,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := r.pool.QueryRow(ctx, `
		SELECT id, satis_tarihi, firma_id, magaza_id, operator_id, tur_id, rehber_id,
		       grup_pax, magaza_pax, created_at, updated_at
		FROM satislar WHERE id = $1`, id).
		Scan(&s.ID, &s.SaleDate, &s.CompanyID, &s.StoreID, &s.OperatorID, &s.TourID, &s.GuideID,
			&s.GroupPax, &s.StorePax, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, httpx.ErrNotFound
		}
		return Sale{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, sale Sale) (Sale, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO satislar (satis_tarihi, firma_id, magaza_id, operator_id, tur_id, rehber_id, grup_pax, magaza_pax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		sale.SaleDate, sale.CompanyID, sale.StoreID, sale.OperatorID, sale.TourID, sale.GuideID,
		sale.GroupPax, sale.StorePax).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (r *repository) Update(ctx context.Context, id int64, sale Sale) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE satislar
		SET satis_tarihi = $2, firma_id = $3, magaza_id = $4, operator_id = $5,
		    tur_id = $6, rehber_id = $7, grup_pax = $8, magaza_pax = $9, updated_at = NOW()
		WHERE id = $1`,
		id, sale.SaleDate, sale.CompanyID, sale.StoreID, sale.OperatorID, sale.TourID,
		sale.GuideID, sale.GroupPax, sale.StorePax)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM satislar WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const guideItemColumns = `id, satis_id, urun_id, adet, birim_fiyat, durum, COALESCE(aciklama, ''), created_at, updated_at`

func scanGuideItem(row pgx.Row) (GuideItem, error) {
	var item GuideItem
	err := row.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice,
		&item.Status, &item.Note, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

func (r *repository) ListGuideItems(ctx context.Context, saleID int64) ([]GuideItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+guideItemColumns+` FROM rehber_satis_kalemleri
		WHERE satis_id = $1 ORDER BY id ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GuideItem
	for rows.Next() {
		item, err := scanGuideItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) ListGuideItemsByGuide(ctx context.Context, guideID int64) ([]GuideItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT k.id, k.satis_id, k.urun_id, k.adet, k.birim_fiyat, k.durum, COALESCE(k.aciklama, ''), k.created_at, k.updated_at
		FROM rehber_satis_kalemleri k
		JOIN satislar s ON s.id = k.satis_id
		WHERE s.rehber_id = $1
		ORDER BY k.id ASC`, guideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GuideItem
	for rows.Next() {
		item, err := scanGuideItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) GetGuideItem(ctx context.Context, itemID int64) (GuideItem, error) {
	item, err := scanGuideItem(r.pool.QueryRow(ctx, `
		SELECT `+guideItemColumns+` FROM rehber_satis_kalemleri WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GuideItem{}, httpx.ErrNotFound
		}
		return GuideItem{}, err
	}
	return item, nil
}

// ReplaceGuideItems swaps the sale's guide-side item set atomically. The
// delete and the inserts share one transaction, so a failed insert rolls
// the delete back and no partial set is ever visible.
func (r *repository) ReplaceGuideItems(ctx context.Context, saleID int64, items []GuideItem) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rehber_satis_kalemleri WHERE satis_id = $1`, saleID); err != nil {
			return err
		}
		for _, item := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO rehber_satis_kalemleri (satis_id, urun_id, adet, birim_fiyat, durum, aciklama)
				VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
				saleID, item.ProductID, item.Quantity, item.UnitPrice, item.Status, item.Note)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) DeleteGuideItem(ctx context.Context, itemID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rehber_satis_kalemleri WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateGuideItemStatus(ctx context.Context, itemID int64, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rehber_satis_kalemleri SET durum = $2, updated_at = NOW() WHERE id = $1`,
		itemID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ListStoreItems(ctx context.Context, saleID int64) ([]StoreItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, satis_id, urun_id, adet, birim_fiyat, created_at, updated_at
		FROM magaza_satis_kalemleri
		WHERE satis_id = $1 ORDER BY id ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StoreItem
	for rows.Next() {
		var item StoreItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) ReplaceStoreItems(ctx context.Context, saleID int64, items []StoreItem) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM magaza_satis_kalemleri WHERE satis_id = $1`, saleID); err != nil {
			return err
		}
		for _, item := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO magaza_satis_kalemleri (satis_id, urun_id, adet, birim_fiyat)
				VALUES ($1, $2, $3, $4)`,
				saleID, item.ProductID, item.Quantity, item.UnitPrice)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one bildirim_karsilastirma view row: the store-side and guide-side
// aggregates for a sale/product pair plus the derived status.
type Row struct {
	SaleID      int64           `json:"sale_id"`
	SaleDate    time.Time       `json:"sale_date"`
	CompanyID   int64           `json:"company_id"`
	CompanyName string          `json:"company_name"`
	StoreID     int64           `json:"store_id"`
	StoreName   string          `json:"store_name"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	StoreExists bool            `json:"store_exists"`
	GuideExists bool            `json:"guide_exists"`
	StoreCount  int             `json:"store_count"`
	StoreAmount decimal.Decimal `json:"store_amount"`
	GuideCount  int             `json:"guide_count"`
	GuideAmount decimal.Decimal `json:"guide_amount"`
	Status      string          `json:"status"`
	AmountDelta decimal.Decimal `json:"amount_delta"`
}

// Summary holds the per-status row counters. Counters are the only derived
// figure the service caches; row-level deltas are always recomputed from
// the view.
type Summary struct {
	Available    bool `json:"available"`
	Compatible   int  `json:"compatible"`
	Incompatible int  `json:"incompatible"`
	NoGuide      int  `json:"no_guide"`
	NoStore      int  `json:"no_store"`
	Total        int  `json:"total"`
}

// Filters narrows the comparison listing.
type Filters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	CompanyID *int64
	StoreID   *int64
}

package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Guide-reported line item approval statuses. The wire values are the
// Turkish enum the schema stores.
const (
	StatusApproved  = "onaylandı"
	StatusPending   = "beklemede"
	StatusCancelled = "iptal"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusApproved, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a guide item may move between statuses.
// Pending items can be approved or cancelled; both outcomes are terminal.
// Reassignment is done by deleting and recreating the item, never by a
// transition back into pending.
func CanTransition(from, to string) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusCancelled)
}

// Sale is a tour group's visit to a store on a date. Line items hang off it
// on two independent reporting channels (guide-side and store-side).
type Sale struct {
	ID         int64     `json:"id"`
	SaleDate   time.Time `json:"sale_date"`
	CompanyID  int64     `json:"company_id"`
	StoreID    int64     `json:"store_id"`
	OperatorID int64     `json:"operator_id"`
	TourID     int64     `json:"tour_id"`
	GuideID    int64     `json:"guide_id"`
	GroupPax   int       `json:"group_pax"`
	StorePax   int       `json:"store_pax"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SaleDetail is a satislar_detay_view row: the sale flattened with the
// display names of its associations.
type SaleDetail struct {
	Sale
	CompanyName  string `json:"company_name"`
	StoreName    string `json:"store_name"`
	OperatorName string `json:"operator_name"`
	TourName     string `json:"tour_name"`
	GuideName    string `json:"guide_name"`
}

// GuideItem is a rehber_satis_kalemleri row.
type GuideItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    string          `json:"status"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Amount is the item's monetary value, quantity × unit price.
func (i GuideItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StoreItem is a magaza_satis_kalemleri row. Store-side items carry no
// approval status; the store channel is authoritative as reported.
type StoreItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StatusTotal is one bucket of a guide's per-status summary.
type StatusTotal struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Summary groups a guide's items into the three disjoint status buckets.
type Summary struct {
	Approved  StatusTotal `json:"approved"`
	Pending   StatusTotal `json:"pending"`
	Cancelled StatusTotal `json:"cancelled"`
}

// Summarize computes the per-status totals in a single pass. Every item
// lands in exactly one bucket; amounts accumulate in decimal.
func Summarize(items []GuideItem) Summary {
	s := Summary{
		Approved:  StatusTotal{Amount: decimal.Zero},
		Pending:   StatusTotal{Amount: decimal.Zero},
		Cancelled: StatusTotal{Amount: decimal.Zero},
	}
	for _, item := range items {
		amount := item.Amount()
		switch item.Status {
		case StatusApproved:
			s.Approved.Amount = s.Approved.Amount.Add(amount)
			s.Approved.Count++
		case StatusCancelled:
			s.Cancelled.Amount = s.Cancelled.Amount.Add(amount)
			s.Cancelled.Count++
		default:
			s.Pending.Amount = s.Pending.Amount.Add(amount)
			s.Pending.Count++
		}
	}
	return s
}

// Filters narrows sale listings.
type Filters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	StoreID  *int64
	GuideID  *int64
	Page     int
	Limit    int
}

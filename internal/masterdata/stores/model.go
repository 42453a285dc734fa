package stores

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a magazalar row. Stores belong to a company and carry
// the commission rate used by accounting downstream.
type Store struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StoreWithCompany joins the owning company name for listings.
type StoreWithCompany struct {
	Store
	CompanyName string `json:"company_name"`
}

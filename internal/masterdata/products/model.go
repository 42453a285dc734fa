package products

import "time"

// Product represents an urunler row. Products are scoped to a company; two
// companies may sell products with the same name.
type Product struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductWithCompany struct {
	Product
	CompanyName string `json:"company_name"`
}

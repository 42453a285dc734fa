package tours

import "time"

// Tour represents a turlar row. Tours belong to an operator.
type Tour struct {
	ID         int64     `json:"id"`
	OperatorID int64     `json:"operator_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TourWithOperator struct {
	Tour
	OperatorName string `json:"operator_name"`
}

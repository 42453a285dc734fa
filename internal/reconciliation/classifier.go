package reconciliation

import "github.com/shopspring/decimal"

// Reconciliation statuses, on the wire exactly as the comparison view
// publishes them.
const (
	StatusCompatible   = "UYUMLU"
	StatusIncompatible = "UYUMSUZ"
	StatusNoGuide      = "REHBER_BILDIRIMI_YOK"
	StatusNoStore      = "MAGAZA_BILDIRIMI_YOK"
)

// Input carries the two channels' aggregates for one sale/product pair.
type Input struct {
	StoreExists bool
	GuideExists bool
	StoreCount  int
	StoreAmount decimal.Decimal
	GuideCount  int
	GuideAmount decimal.Decimal
}

// Classify maps a comparison row to exactly one status. Amount deltas are
// rounded to 2 decimal places before comparison so sub-cent noise from the
// view's aggregation never flags a row. Deterministic and side-effect free.
func Classify(in Input) string {
	switch {
	case !in.StoreExists && !in.GuideExists:
		// The view never emits such a row; classify it as compatible so
		// the function stays total.
		return StatusCompatible
	case !in.GuideExists:
		return StatusNoGuide
	case !in.StoreExists:
		return StatusNoStore
	}

	amountDelta := in.GuideAmount.Sub(in.StoreAmount).Round(2)
	if in.GuideCount != in.StoreCount || !amountDelta.IsZero() {
		return StatusIncompatible
	}
	return StatusCompatible
}

// AmountDelta is guide minus store, rounded to 2 places. This is the figure
// shown next to each incompatible row.
func AmountDelta(in Input) decimal.Decimal {
	return in.GuideAmount.Sub(in.StoreAmount).Round(2)
}

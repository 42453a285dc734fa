package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeGroupsByStatus(t *testing.T) {
	items := []GuideItem{
		{Quantity: 2, UnitPrice: price("100.50"), Status: StatusApproved},
		{Quantity: 1, UnitPrice: price("49.99"), Status: StatusApproved},
		{Quantity: 3, UnitPrice: price("10.00"), Status: StatusPending},
		{Quantity: 1, UnitPrice: price("500.00"), Status: StatusCancelled},
	}

	s := Summarize(items)

	require.Equal(t, 2, s.Approved.Count)
	require.True(t, s.Approved.Amount.Equal(price("250.99")), "got %s", s.Approved.Amount)
	require.Equal(t, 1, s.Pending.Count)
	require.True(t, s.Pending.Amount.Equal(price("30.00")))
	require.Equal(t, 1, s.Cancelled.Count)
	require.True(t, s.Cancelled.Amount.Equal(price("500.00")))

	// Disjoint groups: bucket counts add up to the item count.
	require.Equal(t, len(items), s.Approved.Count+s.Pending.Count+s.Cancelled.Count)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.Approved.Count)
	require.Equal(t, 0, s.Pending.Count)
	require.Equal(t, 0, s.Cancelled.Count)
	require.True(t, s.Approved.Amount.IsZero())
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(StatusPending, StatusApproved))
	require.True(t, CanTransition(StatusPending, StatusCancelled))

	// Terminal states never move again, and nothing returns to pending.
	require.False(t, CanTransition(StatusApproved, StatusCancelled))
	require.False(t, CanTransition(StatusApproved, StatusPending))
	require.False(t, CanTransition(StatusCancelled, StatusApproved))
	require.False(t, CanTransition(StatusCancelled, StatusPending))
	require.False(t, CanTransition(StatusPending, StatusPending))
}

package reconciliation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestClassifyMatchingRowIsCompatible(t *testing.T) {
	in := Input{
		StoreExists: true,
		GuideExists: true,
		StoreCount:  3,
		StoreAmount: dec("1500.00"),
		GuideCount:  3,
		GuideAmount: dec("1500.00"),
	}
	require.Equal(t, StatusCompatible, Classify(in))
}

func TestClassifyAmountMismatch(t *testing.T) {
	in := Input{
		StoreExists: true,
		GuideExists: true,
		StoreCount:  3,
		StoreAmount: dec("1500.00"),
		GuideCount:  3,
		GuideAmount: dec("1499.00"),
	}
	require.Equal(t, StatusIncompatible, Classify(in))
	require.True(t, AmountDelta(in).Equal(dec("-1.00")))
}

func TestClassifyCountMismatch(t *testing.T) {
	in := Input{
		StoreExists: true,
		GuideExists: true,
		StoreCount:  2,
		StoreAmount: dec("1500.00"),
		GuideCount:  3,
		GuideAmount: dec("1500.00"),
	}
	require.Equal(t, StatusIncompatible, Classify(in))
}

func TestClassifyMissingChannels(t *testing.T) {
	require.Equal(t, StatusNoGuide, Classify(Input{
		StoreExists: true,
		StoreCount:  1,
		StoreAmount: dec("100.00"),
		GuideAmount: decimal.Zero,
	}))
	require.Equal(t, StatusNoStore, Classify(Input{
		GuideExists: true,
		GuideCount:  1,
		GuideAmount: dec("100.00"),
		StoreAmount: decimal.Zero,
	}))
}

func TestClassifySubCentNoiseIsCompatible(t *testing.T) {
	// Aggregation noise below half a cent disappears after rounding.
	in := Input{
		StoreExists: true,
		GuideExists: true,
		StoreCount:  2,
		StoreAmount: dec("200.001"),
		GuideCount:  2,
		GuideAmount: dec("200.004"),
	}
	require.Equal(t, StatusCompatible, Classify(in))
}

func TestClassifyIsTotalAndDeterministic(t *testing.T) {
	valid := map[string]struct{}{
		StatusCompatible:   {},
		StatusIncompatible: {},
		StatusNoGuide:      {},
		StatusNoStore:      {},
	}
	cases := []Input{
		{},
		{StoreExists: true},
		{GuideExists: true},
		{StoreExists: true, GuideExists: true},
		{StoreExists: true, GuideExists: true, StoreCount: 1, GuideCount: 2},
		{StoreExists: true, GuideExists: true, StoreAmount: dec("10"), GuideAmount: dec("10.005")},
	}
	for _, in := range cases {
		first := Classify(in)
		_, ok := valid[first]
		require.True(t, ok, "classify returned unknown status %q", first)
		require.Equal(t, first, Classify(in), "classifier must be deterministic")
	}
}

package lots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func day(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }

// sampleLots is 1.0 unit at a total cost of 44000, recorded out of date order.
func sampleLots() []LotDetail {
	return []LotDetail{
		{ID: "L2", Date: day(time.February, 1), Quantity: d("0.3"), UnitCost: d("60000"), TotalCost: d("18000")},
		{ID: "L1", Date: day(time.January, 1), Quantity: d("0.5"), UnitCost: d("40000"), TotalCost: d("20000")},
		{ID: "L3", Date: day(time.March, 1), Quantity: d("0.2"), UnitCost: d("30000"), TotalCost: d("6000")},
	}
}

func TestAllocate_FIFO(t *testing.T) {
	res, err := Allocate(sampleLots(), d("0.6"), d("50000"), FIFO, nil)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 2)
	assert.Equal(t, "L1", res.Allocations[0].LotID)
	assertDec(t, "0.5", res.Allocations[0].Quantity)
	assertDec(t, "20000", res.Allocations[0].Cost)
	assert.Equal(t, "L2", res.Allocations[1].LotID)
	assertDec(t, "0.1", res.Allocations[1].Quantity)
	assertDec(t, "6000", res.Allocations[1].Cost)

	assertDec(t, "0.6", res.QuantitySold)
	assertDec(t, "26000", res.TotalCost)
	assertDec(t, "30000", res.TotalProceeds)
	assertDec(t, "4000", res.RealizedPnL)
	require.True(t, res.RealizedPnLPct.Valid)
	assert.InDelta(t, 15.3846, res.RealizedPnLPct.Decimal.InexactFloat64(), 0.0001)
}

func TestAllocate_LIFO(t *testing.T) {
	res, err := Allocate(sampleLots(), d("0.6"), d("50000"), LIFO, nil)
	require.NoError(t, err)

	require.Len(t, res.Allocations, 3)
	assert.Equal(t, []string{"L3", "L2", "L1"}, lotIDs(res.Allocations))
	assertDec(t, "0.1", res.Allocations[2].Quantity)
	assertDec(t, "28000", res.TotalCost)
}

func TestAllocate_Cheapest(t *testing.T) {
	res, err := Allocate(sampleLots(), d("0.6"), d("50000"), Cheapest, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"L3", "L1"}, lotIDs(res.Allocations))
	assertDec(t, "0.4", res.Allocations[1].Quantity)
	assertDec(t, "22000", res.TotalCost)

	t.Run("equal unit cost consumes the older lot first", func(t *testing.T) {
		lots := []LotDetail{
			{ID: "new", Date: day(time.June, 1), Quantity: d("1"), UnitCost: d("100"), TotalCost: d("100")},
			{ID: "old", Date: day(time.January, 1), Quantity: d("1"), UnitCost: d("100"), TotalCost: d("100")},
		}
		res, err := Allocate(lots, d("1"), d("120"), Cheapest, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"old"}, lotIDs(res.Allocations))
	})

	t.Run("unit cost derived from total when not recorded", func(t *testing.T) {
		lots := []LotDetail{
			{ID: "a", Date: day(time.January, 1), Quantity: d("2"), TotalCost: d("300")},
			{ID: "b", Date: day(time.February, 1), Quantity: d("2"), TotalCost: d("100")},
		}
		res, err := Allocate(lots, d("1"), d("100"), Cheapest, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, lotIDs(res.Allocations))
		assertDec(t, "50", res.TotalCost)
	})
}

func TestAllocate_PPP(t *testing.T) {
	t.Run("full sale at weighted-average cost", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("1"), d("50000"), PPP, nil)
		require.NoError(t, err)

		assert.Empty(t, res.Allocations)
		assert.NotNil(t, res.Allocations)
		assertDec(t, "1", res.QuantitySold)
		assertDec(t, "44000", res.TotalCost)
		assertDec(t, "50000", res.TotalProceeds)
		assertDec(t, "6000", res.RealizedPnL)
	})

	t.Run("partial sale", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("0.25"), d("50000"), PPP, nil)
		require.NoError(t, err)
		assertDec(t, "11000", res.TotalCost)
	})
}

func TestAllocate_Manual(t *testing.T) {
	t.Run("caps requests and ignores unknown lots", func(t *testing.T) {
		manual := []ManualAllocation{
			{LotID: "L2", Quantity: d("0.2")},
			{LotID: "nope", Quantity: d("1")},
			{LotID: "L1", Quantity: d("5")},
		}
		res, err := Allocate(sampleLots(), d("0.6"), d("50000"), Manual, manual)
		require.NoError(t, err)

		assert.Equal(t, []string{"L2", "L1"}, lotIDs(res.Allocations))
		assertDec(t, "0.2", res.Allocations[0].Quantity)
		assertDec(t, "12000", res.Allocations[0].Cost)
		assertDec(t, "0.4", res.Allocations[1].Quantity)
		assertDec(t, "0.6", res.QuantitySold)
	})

	t.Run("repeated lot never exceeds its quantity", func(t *testing.T) {
		manual := []ManualAllocation{
			{LotID: "L3", Quantity: d("0.15")},
			{LotID: "L3", Quantity: d("0.15")},
		}
		res, err := Allocate(sampleLots(), d("1"), d("50000"), Manual, manual)
		require.NoError(t, err)

		require.Len(t, res.Allocations, 1)
		assertDec(t, "0.2", res.Allocations[0].Quantity)
		assertDec(t, "6000", res.Allocations[0].Cost)
	})

	t.Run("falls back to FIFO without allocations", func(t *testing.T) {
		manual, err := Allocate(sampleLots(), d("0.6"), d("50000"), Manual, nil)
		require.NoError(t, err)
		fifo, err := Allocate(sampleLots(), d("0.6"), d("50000"), FIFO, nil)
		require.NoError(t, err)

		assert.Equal(t, fifo.Allocations, manual.Allocations)
		assertDec(t, fifo.TotalCost.String(), manual.TotalCost)
	})
}

func TestAllocate_EdgeCases(t *testing.T) {
	t.Run("request is clamped to held quantity", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("2"), d("50000"), FIFO, nil)
		require.NoError(t, err)
		assertDec(t, "1", res.QuantitySold)
		assertDec(t, "44000", res.TotalCost)
	})

	for _, qty := range []string{"0", "-1"} {
		t.Run("non-positive request "+qty, func(t *testing.T) {
			res, err := Allocate(sampleLots(), d(qty), d("50000"), FIFO, nil)
			require.NoError(t, err)
			assert.Empty(t, res.Allocations)
			assert.True(t, res.QuantitySold.IsZero())
			assert.True(t, res.TotalCost.IsZero())
			assert.False(t, res.RealizedPnLPct.Valid)
		})
	}

	t.Run("empty lot set", func(t *testing.T) {
		res, err := Allocate(nil, d("1"), d("50000"), LIFO, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Allocations)
		assert.True(t, res.QuantitySold.IsZero())
	})

	t.Run("zero-cost lots have no realized percentage", func(t *testing.T) {
		lots := []LotDetail{{ID: "gift", Date: day(time.May, 1), Quantity: d("3"), TotalCost: d("0")}}
		res, err := Allocate(lots, d("1"), d("10"), FIFO, nil)
		require.NoError(t, err)
		assertDec(t, "10", res.RealizedPnL)
		assert.False(t, res.RealizedPnLPct.Valid)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := Allocate(sampleLots(), d("1"), d("1"), Strategy("HIFO"), nil)
		assert.ErrorIs(t, err, apperrors.ErrUnknownStrategy)
	})
}

func TestAllocate_QuantityInvariant(t *testing.T) {
	requests := []string{"0.01", "0.2", "0.33", "0.5", "0.7999", "0.8", "1", "1.5"}
	for _, strategy := range []Strategy{FIFO, LIFO, Cheapest, Manual} {
		for _, req := range requests {
			t.Run(string(strategy)+"/"+req, func(t *testing.T) {
				lots := sampleLots()
				res, err := Allocate(lots, d(req), d("1"), strategy, nil)
				require.NoError(t, err)

				want := decimal.Min(d(req), Held(lots))
				sum := decimal.Zero
				seen := map[string]bool{}
				for _, a := range res.Allocations {
					assert.False(t, seen[a.LotID], "lot %s allocated twice", a.LotID)
					seen[a.LotID] = true
					sum = sum.Add(a.Quantity)
					for _, l := range lots {
						if l.ID == a.LotID {
							assert.True(t, a.Quantity.LessThanOrEqual(l.Quantity))
						}
					}
				}
				assertDec(t, want.String(), sum)
				assertDec(t, want.String(), res.QuantitySold)
			})
		}
	}
}

func TestAllocate_DoesNotMutateLots(t *testing.T) {
	lots := sampleLots()
	before := sampleLots()
	_, err := Allocate(lots, d("0.9"), d("1"), Cheapest, nil)
	require.NoError(t, err)
	assert.Equal(t, before, lots)
}

func TestConsume(t *testing.T) {
	t.Run("per-lot strategies remove what was allocated", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("0.6"), d("1"), FIFO, nil)
		require.NoError(t, err)

		left := Consume(sampleLots(), res)
		require.Len(t, left, 2)
		assert.Equal(t, "L2", left[0].ID)
		assertDec(t, "0.2", left[0].Quantity)
		assertDec(t, "12000", left[0].TotalCost)
		assert.Equal(t, "L3", left[1].ID)
		assertDec(t, "0.4", Held(left))
	})

	t.Run("PPP reduces every lot proportionally", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("0.5"), d("1"), PPP, nil)
		require.NoError(t, err)

		left := Consume(sampleLots(), res)
		require.Len(t, left, 3)
		assertDec(t, "0.5", Held(left))
		assertDec(t, "22000", TotalCost(left))
		assertDec(t, "0.25", left[1].Quantity)
	})

	t.Run("PPP full sale empties the book", func(t *testing.T) {
		res, err := Allocate(sampleLots(), d("1"), d("1"), PPP, nil)
		require.NoError(t, err)
		assert.Empty(t, Consume(sampleLots(), res))
	})
}

func TestValued(t *testing.T) {
	valued := Valued(sampleLots(), decimal.NewNullDecimal(d("50000")))
	require.Len(t, valued, 3)
	assertDec(t, "15000", valued[0].CurrentValue.Decimal)
	assertDec(t, "-3000", valued[0].UnrealizedPnL.Decimal)

	unpriced := Valued(sampleLots(), decimal.NullDecimal{})
	assert.False(t, unpriced[0].CurrentValue.Valid)
	assert.False(t, unpriced[0].UnrealizedPnL.Valid)
}

func TestParseStrategy(t *testing.T) {
	for _, raw := range []string{"ppp", "FIFO", " lifo ", "Cheapest", "manual"} {
		s, err := ParseStrategy(raw)
		require.NoError(t, err)
		assert.True(t, s.Valid())
	}
	_, err := ParseStrategy("average")
	assert.ErrorIs(t, err, apperrors.ErrUnknownStrategy)
}

func lotIDs(allocations []LotAllocation) []string {
	ids := make([]string, len(allocations))
	for i, a := range allocations {
		ids[i] = a.LotID
	}
	return ids
}

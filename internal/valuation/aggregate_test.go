package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

func TestAggregate(t *testing.T) {
	t.Run("empty portfolio", func(t *testing.T) {
		totals := Aggregate(nil)
		assert.Equal(t, model.PortfolioAssetTotals{}, totals)
		assert.Nil(t, totals.PnLPctARS)
		assert.Nil(t, totals.PnLPctUSD)
	})

	t.Run("sums and skips missing values", func(t *testing.T) {
		metrics := []model.AssetMetrics{
			{ValueARS: ptr(1000), ValueUSD: ptr(1), CostARS: ptr(800), CostUSD: ptr(1)},
			{ValueARS: ptr(500), ValueUSD: nil, CostARS: ptr(700), CostUSD: ptr(0.5)},
			{ValueARS: nil, ValueUSD: ptr(math.NaN()), CostARS: nil, CostUSD: nil},
		}
		totals := Aggregate(metrics)

		assert.Equal(t, 1500.0, totals.ValueARS)
		assert.Equal(t, 1.0, totals.ValueUSD)
		assert.Equal(t, 1500.0, totals.CostARS)
		assert.Equal(t, 1.5, totals.CostUSD)
		assert.Equal(t, 0.0, totals.PnLARS)
		assert.Equal(t, -0.5, totals.PnLUSD)
		require.NotNil(t, totals.PnLPctARS)
		assert.InDelta(t, 0.0, *totals.PnLPctARS, 1e-9)
		require.NotNil(t, totals.PnLPctUSD)
		assert.InDelta(t, -100.0/3, *totals.PnLPctUSD, 1e-9)
	})

	t.Run("unpriced position keeps its cost", func(t *testing.T) {
		metrics := []model.AssetMetrics{
			{ValueARS: ptr(1500), CostARS: ptr(1000)},
			{ValueARS: nil, CostARS: ptr(2000)},
		}
		totals := Aggregate(metrics)

		assert.Equal(t, 1500.0, totals.ValueARS)
		assert.Equal(t, 3000.0, totals.CostARS)
		assert.Equal(t, -1500.0, totals.PnLARS)
		require.NotNil(t, totals.PnLPctARS)
		assert.InDelta(t, -50.0, *totals.PnLPctARS, 1e-9)
	})

	t.Run("pnl percentage undefined without cost", func(t *testing.T) {
		totals := Aggregate([]model.AssetMetrics{{ValueARS: ptr(100), CostARS: ptr(0)}})
		assert.Equal(t, 100.0, totals.PnLARS)
		assert.Nil(t, totals.PnLPctARS)
	})
}

func TestWithRealized(t *testing.T) {
	totals := Aggregate([]model.AssetMetrics{{ValueARS: ptr(100), CostARS: ptr(50)}})
	merged := WithRealized(totals, 6000, 5)

	assert.Equal(t, 6000.0, merged.RealizedPnLARS)
	assert.Equal(t, 5.0, merged.RealizedPnLUSD)
	assert.Equal(t, totals.PnLARS, merged.PnLARS)
}

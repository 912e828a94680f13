package valuation

import "github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"

// Aggregate sums per-asset metrics into portfolio totals. Nil or non-finite
// fields are skipped. PnL percentages are nil when the total cost is not positive.
//
// Value and cost are summed independently: a position held without a price
// still contributes its cost, so unrealized PnL counts it as a full loss
// until a price arrives.
// Realized PnL is not computed here; merge it with WithRealized.
func Aggregate(metrics []model.AssetMetrics) model.PortfolioAssetTotals {
	var t model.PortfolioAssetTotals
	for _, m := range metrics {
		t.ValueARS += value(m.ValueARS)
		t.ValueUSD += value(m.ValueUSD)
		t.CostARS += value(m.CostARS)
		t.CostUSD += value(m.CostUSD)
	}

	t.PnLARS = t.ValueARS - t.CostARS
	t.PnLUSD = t.ValueUSD - t.CostUSD

	if t.CostARS > 0 {
		t.PnLPctARS = PctOf(&t.PnLARS, &t.CostARS)
	}
	if t.CostUSD > 0 {
		t.PnLPctUSD = PctOf(&t.PnLUSD, &t.CostUSD)
	}
	return t
}

// WithRealized merges realized PnL from closed sales into the totals.
func WithRealized(t model.PortfolioAssetTotals, realizedARS, realizedUSD float64) model.PortfolioAssetTotals {
	t.RealizedPnLARS += realizedARS
	t.RealizedPnLUSD += realizedUSD
	return t
}

func value(v *float64) float64 {
	if f := finite(v); f != nil {
		return *f
	}
	return 0
}

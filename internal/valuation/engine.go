// Package valuation computes per-position metrics and portfolio totals from
// positions, live prices and FX quotes. Everything in it is pure: the same
// inputs always produce the same outputs.
package valuation

import (
	"fmt"
	"math"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// Engine values single positions. The zero value values at liquidation rates.
type Engine struct {
	Converter fx.Converter
}

// NewEngine creates an Engine that converts with the given mode.
func NewEngine(mode fx.Mode) Engine {
	return Engine{Converter: fx.Converter{Mode: mode}}
}

// BenchmarkFor selects the FX benchmark an asset class is valued against.
func BenchmarkFor(class model.AssetClass) (fx.Benchmark, error) {
	if class.IsEquity() {
		return fx.MEP, nil
	}
	switch class {
	case model.AssetClassFCI, model.AssetClassPF, model.AssetClassCashARS:
		return fx.Oficial, nil
	case model.AssetClassCrypto, model.AssetClassStable:
		return fx.Cripto, nil
	case model.AssetClassCashUSD:
		return fx.Identity, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownAssetClass, class)
	}
}

// NativeCurrency returns the currency a position is priced in, defaulting by asset class.
func NativeCurrency(in model.AssetInput) string {
	if in.Currency != "" {
		return in.Currency
	}
	switch in.AssetClass {
	case model.AssetClassCrypto, model.AssetClassStable, model.AssetClassCashUSD:
		return model.HardCurrency
	default:
		return model.LocalCurrency
	}
}

// Compute values one position.
//
// The calculation is dispatched by asset class:
//   - the FX benchmark is chosen with BenchmarkFor
//   - value in the native currency is quantity × live price (cash is priced at 1)
//   - the other currency is derived with the converter: local-native positions
//     convert local→hard, hard-native positions convert hard→local
//   - cost prefers the recorded historical basis in each currency and only
//     converts the other currency's basis at today's rate when none was recorded
//   - PnL is value − cost in each currency independently
//   - ROI is measured in the native currency, except hard-currency cash whose
//     ROI is measured on its local-currency basis
//   - CEDEARs with a ratio and an underlying price also report hard-currency
//     exposure and the implied FX rate; these never feed back into valuation
//
// Missing, non-finite or non-positive prices leave the dependent fields nil.
// An error is only returned for an unknown asset class.
func (e Engine) Compute(in model.AssetInput, prices model.AssetPrices, quotes fx.Quotes) (model.AssetMetrics, error) {
	bench, err := BenchmarkFor(in.AssetClass)
	if err != nil {
		return model.AssetMetrics{}, err
	}

	native := NativeCurrency(in)
	qty := sanitizeQuantity(in.Quantity)

	m := model.AssetMetrics{
		InstrumentID: in.InstrumentID,
		Symbol:       in.Symbol,
		AssetClass:   in.AssetClass,
		Currency:     native,
		Quantity:     qty,
		FXKey:        string(bench),
	}

	price := positive(prices.Price)
	if in.AssetClass.IsCash() {
		price = ptr(1)
	}
	m.Price = price

	var nativeValue *float64
	if price != nil {
		nativeValue = ptr(qty * *price)
	}

	quote, _ := quotes.Get(bench)

	switch {
	case in.AssetClass == model.AssetClassCashUSD:
		// Hard cash is its own hard-currency value; its local view is what
		// selling it at the official rate would realize.
		local, _ := quotes.Get(fx.Oficial)
		m.FXRate = ptr(1)
		m.ValueUSD = nativeValue
		m.ValueARS = e.Converter.ToLocal(nativeValue, local)
		m.CostUSD = firstValid(in.CostUSD, nativeValue)
		m.CostARS = firstValid(in.CostARS, m.ValueARS)
	case native == model.LocalCurrency:
		m.FXRate = e.Converter.Rate(quote, fx.LocalToHard)
		m.ValueARS = nativeValue
		m.ValueUSD = e.Converter.ToHard(nativeValue, quote)
		m.CostARS = finite(in.CostARS)
		m.CostUSD = firstValid(in.CostUSD, e.Converter.ToHard(in.CostARS, quote))
	default:
		m.FXRate = e.Converter.Rate(quote, fx.HardToLocal)
		m.ValueUSD = nativeValue
		m.ValueARS = e.Converter.ToLocal(nativeValue, quote)
		m.CostUSD = firstValid(in.CostUSD, e.Converter.ToHard(in.CostARS, quote))
		m.CostARS = firstValid(in.CostARS, e.Converter.ToLocal(in.CostUSD, quote))
	}

	m.PnLARS = sub(m.ValueARS, m.CostARS)
	m.PnLUSD = sub(m.ValueUSD, m.CostUSD)

	switch {
	case in.AssetClass == model.AssetClassCashUSD, native == model.LocalCurrency:
		m.ROIPct = PctOf(m.PnLARS, m.CostARS)
	default:
		m.ROIPct = PctOf(m.PnLUSD, m.CostUSD)
	}

	m.DailyChangeARS = DailyChange(m.ValueARS, prices.DailyChangePct)

	if in.AssetClass == model.AssetClassCEDEAR {
		m.ExposureUSD, m.ImpliedFX = cedearStructure(qty, price, positive(prices.UnderlyingPrice), in.Ratio)
	}

	return m, nil
}

// cedearStructure derives the hard-currency exposure of a CEDEAR position and
// the FX rate implied by its local price against the foreign listing.
func cedearStructure(qty float64, price, underlying *float64, ratio float64) (exposure, implied *float64) {
	if underlying == nil || !(ratio > 0) || math.IsInf(ratio, 0) {
		return nil, nil
	}
	exposure = ptr(qty * (*underlying / ratio))
	if price != nil {
		implied = ptr(*price * ratio / *underlying)
	}
	return exposure, implied
}

// PctOf returns part/base as a percentage, or nil when either side is missing
// or the base is zero or non-finite.
func PctOf(part, base *float64) *float64 {
	p, b := finite(part), finite(base)
	if p == nil || b == nil || *b == 0 {
		return nil
	}
	return ptr(*p / *b * 100)
}

// DailyChange recovers the absolute day-over-day change of a value from its
// percentage change (as a ratio), inverting current = previous × (1 + pct).
// Returns nil when the previous value cannot be recovered.
func DailyChange(current, pct *float64) *float64 {
	c, p := finite(current), finite(pct)
	if c == nil || p == nil || 1+*p == 0 {
		return nil
	}
	previous := *c / (1 + *p)
	return ptr(*c - previous)
}

func sanitizeQuantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0
	}
	return q
}

func sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return finite(ptr(*a - *b))
}

func firstValid(values ...*float64) *float64 {
	for _, v := range values {
		if f := finite(v); f != nil {
			return f
		}
	}
	return nil
}

func positive(v *float64) *float64 {
	f := finite(v)
	if f == nil || *f <= 0 {
		return nil
	}
	return f
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func ptr(v float64) *float64 { return &v }

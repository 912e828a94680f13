package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fixeddeposit"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// position is one line of the portfolio before valuation, together with
// the realized results of its closed trades.
type position struct {
	input       model.AssetInput
	prices      model.AssetPrices
	realized    []model.RealizedGainLoss
	realizedARS float64
	realizedUSD float64
}

// tradedPositions rebuilds every traded instrument from its buy and sell
// movements. Cash and fixed-term deposits are handled separately.
//
// Quantity and realized trades come from a book kept in the trade currency.
// The local and hard currency cost bases come from books kept in those
// currencies, and are left nil when a trade lacks the FX rate needed to
// express it there.
func tradedPositions(data *PortfolioData, method lots.Strategy) ([]position, error) {
	byInstrument := make(map[string][]model.Movement)
	for _, m := range data.Movements {
		if m.InstrumentID == "" || m.AssetClass.IsCash() || m.AssetClass == model.AssetClassPF {
			continue
		}
		byInstrument[m.InstrumentID] = append(byInstrument[m.InstrumentID], m)
	}

	ids := make([]string, 0, len(byInstrument))
	for id := range byInstrument {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	positions := make([]position, 0, len(ids))
	for _, id := range ids {
		movements := byInstrument[id]

		native, err := lots.Replay(movements, method, lots.NativeCosting)
		if err != nil {
			return nil, err
		}
		local, err := lots.Replay(movements, method, lots.LocalCosting)
		if err != nil {
			return nil, err
		}
		hard, err := lots.Replay(movements, method, lots.HardCosting)
		if err != nil {
			return nil, err
		}

		instrument, ok := data.Instruments[id]
		if !ok {
			instrument = model.Instrument{
				ID:         id,
				Symbol:     id,
				AssetClass: movements[0].AssetClass,
				Currency:   movements[0].Currency,
			}
		}

		p := position{
			input: model.AssetInput{
				InstrumentID: id,
				Symbol:       instrument.Symbol,
				AssetClass:   instrument.AssetClass,
				Currency:     instrument.Currency,
				Quantity:     native.Quantity().InexactFloat64(),
				Ratio:        instrument.Ratio,
			},
			prices: pricesFor(data.Prices, id),
		}
		if local.Complete {
			p.input.CostARS = decimalPtr(local.Cost())
			p.realizedARS = local.RealizedPnL().InexactFloat64()
		}
		if hard.Complete {
			p.input.CostUSD = decimalPtr(hard.Cost())
			p.realizedUSD = hard.RealizedPnL().InexactFloat64()
		}
		for _, r := range native.Realized {
			p.realized = append(p.realized, model.RealizedGainLoss{
				MovementID:       r.MovementID,
				InstrumentID:     id,
				TransactionDate:  r.Date,
				Currency:         instrument.Currency,
				SharesSold:       r.Result.QuantitySold.InexactFloat64(),
				CostBasis:        r.Result.TotalCost.InexactFloat64(),
				SaleProceeds:     r.Result.TotalProceeds.InexactFloat64(),
				RealizedGainLoss: r.Result.RealizedPnL.InexactFloat64(),
			})
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// cashPositions nets every cash movement into one balance per cash class.
// A cash balance is its own cost basis.
func cashPositions(movements []model.Movement) []position {
	balances := make(map[model.AssetClass]decimal.Decimal)
	for _, m := range movements {
		if !m.AssetClass.IsCash() {
			continue
		}
		balances[m.AssetClass] = balances[m.AssetClass].Add(cashDelta(m))
	}

	var positions []position
	for _, class := range []model.AssetClass{model.AssetClassCashARS, model.AssetClassCashUSD} {
		balance, ok := balances[class]
		if !ok || !balance.IsPositive() {
			continue
		}
		currency := model.LocalCurrency
		if class == model.AssetClassCashUSD {
			currency = model.HardCurrency
		}
		qty := balance.InexactFloat64()
		p := position{
			input: model.AssetInput{
				InstrumentID: string(class),
				Symbol:       currency,
				AssetClass:   class,
				Currency:     currency,
				Quantity:     qty,
			},
		}
		if class == model.AssetClassCashARS {
			p.input.CostARS = &qty
		} else {
			p.input.CostUSD = &qty
		}
		positions = append(positions, p)
	}
	return positions
}

// cashDelta is the signed effect of a movement on a cash balance.
// Transfers carry their own sign.
func cashDelta(m model.Movement) decimal.Decimal {
	amount := decimal.NewFromFloat(m.Quantity)
	if amount.IsZero() {
		amount = decimal.NewFromFloat(m.TotalAmount)
	}
	switch m.Type {
	case model.MovementDeposit, model.MovementInterest, model.MovementDividend, model.MovementBuy:
		return amount.Abs()
	case model.MovementWithdraw, model.MovementFee, model.MovementSell:
		return amount.Abs().Neg()
	default:
		return amount
	}
}

// depositPositions values every unsettled fixed-term deposit at its
// principal plus the interest accrued so far. Matured deposits carry their
// full expected total until a redemption is recorded.
func depositPositions(state fixeddeposit.DerivedState, now time.Time) []position {
	open := append(slices.Clone(state.Active), state.Matured...)
	positions := make([]position, 0, len(open))
	for _, d := range open {
		principal := d.Principal
		value := principal + fixeddeposit.AccruedInterest(d, now)
		symbol := d.Institution
		if symbol == "" {
			symbol = d.ID
		}
		positions = append(positions, position{
			input: model.AssetInput{
				InstrumentID: d.ID,
				Symbol:       symbol,
				AssetClass:   model.AssetClassPF,
				Currency:     d.Currency,
				Quantity:     1,
				CostARS:      &principal,
			},
			prices: model.AssetPrices{Price: &value},
		})
	}
	return positions
}

func pricesFor(prices map[string]model.InstrumentPrice, instrumentID string) model.AssetPrices {
	p, ok := prices[instrumentID]
	if !ok {
		return model.AssetPrices{}
	}
	return model.AssetPrices{
		Price:           p.Price,
		UnderlyingPrice: p.UnderlyingPrice,
		DailyChangePct:  p.DailyChangePct,
	}
}

func byClassThenSymbol(a, b model.AssetMetrics) int {
	return cmp.Or(
		cmp.Compare(a.AssetClass, b.AssetClass),
		cmp.Compare(a.Symbol, b.Symbol),
		cmp.Compare(a.InstrumentID, b.InstrumentID),
	)
}

func decimalPtr(d decimal.Decimal) *float64 {
	v := d.InexactFloat64()
	return &v
}

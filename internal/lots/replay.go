package lots

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// Costing expresses a movement's unit price and total in the currency a book
// is kept in. ok is false when the movement cannot be expressed in it.
type Costing func(m model.Movement) (unitPrice, total decimal.Decimal, ok bool)

// Realized is the allocation of one sell movement.
type Realized struct {
	MovementID string               `json:"movementId"`
	Date       time.Time            `json:"date"`
	Result     SaleAllocationResult `json:"result"`
}

// Book is the outcome of replaying an instrument's trades.
type Book struct {
	Open     []LotDetail `json:"open"`
	Realized []Realized  `json:"realized"`
	// Complete is false when at least one trade could not be costed, in which
	// case Open and Realized must not be trusted as a cost basis.
	Complete bool `json:"complete"`
}

// Quantity returns the quantity still held.
func (b Book) Quantity() decimal.Decimal { return Held(b.Open) }

// Cost returns the cost basis of the quantity still held.
func (b Book) Cost() decimal.Decimal { return TotalCost(b.Open) }

// RealizedPnL sums the realized PnL of every replayed sale.
func (b Book) RealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Realized {
		total = total.Add(r.Result.RealizedPnL)
	}
	return total
}

// Replay rebuilds the open lots of one instrument from its buy and sell
// movements, in chronological order, matching each sale with strategy.
// Manual cannot be replayed from the ledger and is treated as FIFO.
func Replay(movements []model.Movement, strategy Strategy, costing Costing) (Book, error) {
	if strategy == Manual {
		strategy = FIFO
	}
	if !strategy.Valid() {
		return Book{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownStrategy, strategy)
	}

	trades := make([]model.Movement, 0, len(movements))
	for _, m := range movements {
		if m.Type == model.MovementBuy || m.Type == model.MovementSell {
			trades = append(trades, m)
		}
	}
	slices.SortStableFunc(trades, func(a, b model.Movement) int {
		return cmp.Or(a.Timestamp.Compare(b.Timestamp), cmp.Compare(a.ID, b.ID))
	})

	book := Book{Open: []LotDetail{}, Realized: []Realized{}, Complete: true}
	for _, m := range trades {
		qty := decimal.NewFromFloat(m.Quantity)
		if !qty.IsPositive() {
			continue
		}
		price, total, ok := costing(m)
		if !ok {
			book.Complete = false
			continue
		}

		switch m.Type {
		case model.MovementBuy:
			book.Open = append(book.Open, LotDetail{
				ID:        m.ID,
				Date:      m.Timestamp,
				Quantity:  qty,
				UnitCost:  price,
				TotalCost: total,
			})
		case model.MovementSell:
			result, err := Allocate(book.Open, qty, price, strategy, nil)
			if err != nil {
				return Book{}, err
			}
			book.Open = Consume(book.Open, result)
			book.Realized = append(book.Realized, Realized{MovementID: m.ID, Date: m.Timestamp, Result: result})
		}
	}
	return book, nil
}

// NativeCosting keeps a book in each movement's own trade currency.
func NativeCosting(m model.Movement) (decimal.Decimal, decimal.Decimal, bool) {
	price := decimal.NewFromFloat(m.Price)
	return price, tradeTotal(m, price), true
}

// LocalCosting keeps a book in local currency, converting hard-currency trades
// with the FX rate recorded at trade time.
func LocalCosting(m model.Movement) (decimal.Decimal, decimal.Decimal, bool) {
	return convertedCosting(m, model.LocalCurrency)
}

// HardCosting keeps a book in hard currency, converting local-currency trades
// with the FX rate recorded at trade time.
func HardCosting(m model.Movement) (decimal.Decimal, decimal.Decimal, bool) {
	return convertedCosting(m, model.HardCurrency)
}

func convertedCosting(m model.Movement, target string) (decimal.Decimal, decimal.Decimal, bool) {
	price, total, _ := NativeCosting(m)
	if m.Currency == target || m.Currency == "" && target == model.LocalCurrency {
		return price, total, true
	}
	if m.FXRate == nil || !(*m.FXRate > 0) {
		return decimal.Zero, decimal.Zero, false
	}
	rate := decimal.NewFromFloat(*m.FXRate)
	if target == model.HardCurrency {
		return price.Div(rate), total.Div(rate), true
	}
	return price.Mul(rate), total.Mul(rate), true
}

// tradeTotal prefers the recorded total amount, which includes fees, and
// falls back to quantity × price plus any fee.
func tradeTotal(m model.Movement, price decimal.Decimal) decimal.Decimal {
	if m.TotalAmount > 0 {
		return decimal.NewFromFloat(m.TotalAmount)
	}
	total := decimal.NewFromFloat(m.Quantity).Mul(price)
	if m.Fee != nil && *m.Fee > 0 && m.Type == model.MovementBuy {
		total = total.Add(decimal.NewFromFloat(*m.Fee))
	}
	return total
}

// Package lots matches sales against purchase lots and computes realized gains.
//
// Lots are never mutated: Allocate only describes a hypothetical consumption,
// and Consume returns a new slice with what would remain. All arithmetic is
// decimal so allocated quantities always add up exactly.
package lots

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

var hundred = decimal.NewFromInt(100)

// LotDetail is a single purchase batch of a fungible asset.
type LotDetail struct {
	ID            string              `json:"id"`
	Date          time.Time           `json:"date"`
	Quantity      decimal.Decimal     `json:"quantity"`
	UnitCost      decimal.Decimal     `json:"unitCost"`
	TotalCost     decimal.Decimal     `json:"totalCost"`
	CurrentValue  decimal.NullDecimal `json:"currentValue"`
	UnrealizedPnL decimal.NullDecimal `json:"unrealizedPnl"`
}

// unitCost falls back to total/quantity when the unit cost was not recorded.
func (l LotDetail) unitCost() decimal.Decimal {
	if !l.UnitCost.IsZero() || l.Quantity.IsZero() {
		return l.UnitCost
	}
	return l.TotalCost.Div(l.Quantity)
}

// costOf returns the cost of taking qty out of the lot.
func (l LotDetail) costOf(qty decimal.Decimal) decimal.Decimal {
	if qty.Equal(l.Quantity) {
		return l.TotalCost
	}
	return l.TotalCost.Mul(qty).Div(l.Quantity)
}

// ManualAllocation asks for a specific quantity out of a specific lot.
type ManualAllocation struct {
	LotID    string          `json:"lotId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LotAllocation is the part of one lot consumed by a sale.
type LotAllocation struct {
	LotID    string          `json:"lotId"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

// SaleAllocationResult describes which lots a sale consumes and what it realizes.
type SaleAllocationResult struct {
	Strategy       Strategy            `json:"strategy"`
	QuantitySold   decimal.Decimal     `json:"quantitySold"`
	Allocations    []LotAllocation     `json:"allocations"`
	TotalCost      decimal.Decimal     `json:"totalCost"`
	TotalProceeds  decimal.Decimal     `json:"totalProceeds"`
	RealizedPnL    decimal.Decimal     `json:"realizedPnl"`
	RealizedPnLPct decimal.NullDecimal `json:"realizedPnlPct"`
}

// Held returns the total quantity across lots, ignoring empty or negative lots.
func Held(lots []LotDetail) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.Quantity.IsPositive() {
			total = total.Add(l.Quantity)
		}
	}
	return total
}

// TotalCost returns the summed cost of all non-empty lots.
func TotalCost(lots []LotDetail) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.Quantity.IsPositive() {
			total = total.Add(l.TotalCost)
		}
	}
	return total
}

// Allocate matches a sale of qty units at salePrice against lots.
//
// The requested quantity is clamped to [0, held]. A non-positive request or an
// empty lot set yields a zero result. PPP produces no per-lot list; every other
// strategy lists the consumed lots in consumption order. Manual falls back to
// FIFO when no manual allocations are given, ignores unknown lot IDs and caps
// each request at what is left in the lot.
func Allocate(lots []LotDetail, qty, salePrice decimal.Decimal, strategy Strategy, manual []ManualAllocation) (SaleAllocationResult, error) {
	if !strategy.Valid() {
		return SaleAllocationResult{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownStrategy, strategy)
	}

	result := SaleAllocationResult{Strategy: strategy, Allocations: []LotAllocation{}}

	open := nonEmpty(lots)
	held := Held(open)
	if !qty.IsPositive() || len(open) == 0 || !held.IsPositive() {
		return result, nil
	}
	sell := decimal.Min(qty, held)

	switch strategy {
	case PPP:
		result.QuantitySold = sell
		result.TotalCost = sell.Mul(TotalCost(open)).Div(held)
	case FIFO:
		result.Allocations = consume(sortedBy(open, byDateAsc), sell)
	case LIFO:
		result.Allocations = consume(sortedBy(open, byDateDesc), sell)
	case Cheapest:
		result.Allocations = consume(sortedBy(open, byUnitCostThenDate), sell)
	case Manual:
		if len(manual) == 0 {
			result.Allocations = consume(sortedBy(open, byDateAsc), sell)
		} else {
			result.Allocations = consumeManual(open, manual, sell)
		}
	}

	if strategy != PPP {
		for _, a := range result.Allocations {
			result.QuantitySold = result.QuantitySold.Add(a.Quantity)
			result.TotalCost = result.TotalCost.Add(a.Cost)
		}
	}

	result.TotalProceeds = result.QuantitySold.Mul(salePrice)
	result.RealizedPnL = result.TotalProceeds.Sub(result.TotalCost)
	if result.TotalCost.IsPositive() {
		result.RealizedPnLPct = decimal.NewNullDecimal(result.RealizedPnL.Div(result.TotalCost).Mul(hundred))
	}
	return result, nil
}

// consume walks lots in order, taking from each until qty is satisfied.
func consume(ordered []LotDetail, qty decimal.Decimal) []LotAllocation {
	allocations := []LotAllocation{}
	remaining := qty
	for _, l := range ordered {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(l.Quantity, remaining)
		allocations = append(allocations, LotAllocation{LotID: l.ID, Quantity: take, Cost: l.costOf(take)})
		remaining = remaining.Sub(take)
	}
	return allocations
}

// consumeManual applies caller-chosen allocations. Repeated lot IDs draw from
// the same remaining quantity and are merged into one allocation.
func consumeManual(open []LotDetail, manual []ManualAllocation, limit decimal.Decimal) []LotAllocation {
	byID := make(map[string]LotDetail, len(open))
	left := make(map[string]decimal.Decimal, len(open))
	for _, l := range open {
		byID[l.ID] = l
		left[l.ID] = l.Quantity
	}

	taken := make(map[string]decimal.Decimal)
	var order []string
	budget := limit
	for _, m := range manual {
		if _, ok := byID[m.LotID]; !ok || !m.Quantity.IsPositive() || !budget.IsPositive() {
			continue
		}
		take := decimal.Min(m.Quantity, left[m.LotID], budget)
		if !take.IsPositive() {
			continue
		}
		if _, seen := taken[m.LotID]; !seen {
			order = append(order, m.LotID)
			taken[m.LotID] = decimal.Zero
		}
		taken[m.LotID] = taken[m.LotID].Add(take)
		left[m.LotID] = left[m.LotID].Sub(take)
		budget = budget.Sub(take)
	}

	allocations := make([]LotAllocation, 0, len(order))
	for _, id := range order {
		l := byID[id]
		allocations = append(allocations, LotAllocation{LotID: id, Quantity: taken[id], Cost: l.costOf(taken[id])})
	}
	return allocations
}

// Consume returns the lots that remain after the sale described by result.
// PPP sales reduce every lot proportionally. The input slice is not modified.
func Consume(lots []LotDetail, result SaleAllocationResult) []LotDetail {
	open := nonEmpty(lots)
	if !result.QuantitySold.IsPositive() {
		return open
	}

	if result.Strategy == PPP {
		held := Held(open)
		if result.QuantitySold.GreaterThanOrEqual(held) {
			return []LotDetail{}
		}
		keep := held.Sub(result.QuantitySold)
		remaining := make([]LotDetail, 0, len(open))
		for _, l := range open {
			l.Quantity = l.Quantity.Mul(keep).Div(held)
			l.TotalCost = l.TotalCost.Mul(keep).Div(held)
			remaining = append(remaining, l)
		}
		return remaining
	}

	used := make(map[string]LotAllocation, len(result.Allocations))
	for _, a := range result.Allocations {
		used[a.LotID] = a
	}

	remaining := make([]LotDetail, 0, len(open))
	for _, l := range open {
		if a, ok := used[l.ID]; ok {
			l.Quantity = l.Quantity.Sub(a.Quantity)
			l.TotalCost = l.TotalCost.Sub(a.Cost)
		}
		if l.Quantity.IsPositive() {
			remaining = append(remaining, l)
		}
	}
	return remaining
}

// Valued returns a copy of lots with current value and unrealized PnL at price.
func Valued(lots []LotDetail, price decimal.NullDecimal) []LotDetail {
	out := make([]LotDetail, len(lots))
	for i, l := range lots {
		if price.Valid && price.Decimal.IsPositive() {
			value := l.Quantity.Mul(price.Decimal)
			l.CurrentValue = decimal.NewNullDecimal(value)
			l.UnrealizedPnL = decimal.NewNullDecimal(value.Sub(l.TotalCost))
		} else {
			l.CurrentValue = decimal.NullDecimal{}
			l.UnrealizedPnL = decimal.NullDecimal{}
		}
		out[i] = l
	}
	return out
}

func nonEmpty(lots []LotDetail) []LotDetail {
	out := make([]LotDetail, 0, len(lots))
	for _, l := range lots {
		if l.Quantity.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

func sortedBy(lots []LotDetail, less func(a, b LotDetail) int) []LotDetail {
	out := slices.Clone(lots)
	slices.SortStableFunc(out, less)
	return out
}

func byDateAsc(a, b LotDetail) int  { return a.Date.Compare(b.Date) }
func byDateDesc(a, b LotDetail) int { return b.Date.Compare(a.Date) }

func byUnitCostThenDate(a, b LotDetail) int {
	return cmp.Or(a.unitCost().Cmp(b.unitCost()), a.Date.Compare(b.Date))
}

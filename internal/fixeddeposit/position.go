// Package fixeddeposit reconstructs fixed-term deposits from the movement
// ledger and plans their settlement at maturity.
//
// Everything here is a pure function of the ledger, the FX quotes and an
// explicit "now": deriving twice from the same inputs yields identical output.
package fixeddeposit

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// Status is the lifecycle state of a deposit. A deposit only ever moves
// forward: active, then matured, then closed.
type Status string

const (
	StatusActive  Status = "active"
	StatusMatured Status = "matured"
	StatusClosed  Status = "closed"
)

// Position is a fixed-term deposit as derived from its constitution movement.
type Position struct {
	ID               string     `json:"id"`
	AccountID        string     `json:"accountId"`
	InstrumentID     string     `json:"instrumentId,omitempty"`
	Institution      string     `json:"institution"`
	Currency         string     `json:"currency"`
	Principal        float64    `json:"principal"`
	NominalRate      float64    `json:"nominalRate"`
	EffectiveRate    *float64   `json:"effectiveRate"`
	TermDays         int        `json:"termDays"`
	StartDate        time.Time  `json:"startDate"`
	MaturityDate     time.Time  `json:"maturityDate"`
	ExpectedInterest float64    `json:"expectedInterest"`
	ExpectedTotal    float64    `json:"expectedTotal"`
	Status           Status     `json:"status"`
	RedemptionID     string     `json:"redemptionId,omitempty"`
	RedeemedAt       *time.Time `json:"redeemedAt,omitempty"`
}

// Bucket sums the deposits in one state.
type Bucket struct {
	Count               int      `json:"count"`
	PrincipalARS        float64  `json:"principalArs"`
	ExpectedInterestARS float64  `json:"expectedInterestArs"`
	TotalARS            float64  `json:"totalArs"`
	TotalUSD            *float64 `json:"totalUsd"`
}

// Totals are the aggregated figures of the active and matured buckets.
type Totals struct {
	Active  Bucket `json:"active"`
	Matured Bucket `json:"matured"`
}

// DerivedState partitions every deposit of the ledger by status.
type DerivedState struct {
	Active  []Position `json:"active"`
	Matured []Position `json:"matured"`
	Closed  []Position `json:"closed"`
	Totals  Totals     `json:"totals"`
}

// Find returns the position with the given constitution ID.
func (s DerivedState) Find(id string) (Position, bool) {
	for _, bucket := range [][]Position{s.Active, s.Matured, s.Closed} {
		for _, p := range bucket {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Position{}, false
}

// Options carries the runtime settings of a derivation.
type Options struct {
	Converter fx.Converter
	// HeuristicMatch enables matching unlinked redemptions by institution and date.
	HeuristicMatch bool
}

// IsConstitution reports whether m opens a fixed-term deposit.
// Deposits settle into local cash, so openings in any other currency are not deposits.
func IsConstitution(m model.Movement) bool {
	return m.AssetClass == model.AssetClassPF && m.Type == model.MovementBuy && m.Terms() != nil &&
		(m.Currency == "" || strings.EqualFold(m.Currency, model.LocalCurrency))
}

// IsRedemption reports whether m closes a fixed-term deposit.
func IsRedemption(m model.Movement) bool {
	return m.AssetClass == model.AssetClassPF && m.Type == model.MovementSell
}

// Derive rebuilds the state of every deposit in the ledger as of now.
// Matured and active totals are converted to hard currency at the Oficial rate.
func Derive(ledger []model.Movement, quotes fx.Quotes, now time.Time, opts Options) DerivedState {
	var constitutions, redemptions []model.Movement
	for _, m := range ledger {
		switch {
		case IsConstitution(m):
			constitutions = append(constitutions, m)
		case IsRedemption(m):
			redemptions = append(redemptions, m)
		}
	}
	slices.SortStableFunc(constitutions, byTimestampThenID)
	slices.SortStableFunc(redemptions, byTimestampThenID)

	redeemed := matchRedemptions(constitutions, redemptions, opts.HeuristicMatch)

	state := DerivedState{Active: []Position{}, Matured: []Position{}, Closed: []Position{}}
	for _, c := range constitutions {
		pos := NewPosition(c)
		switch r, ok := redeemed[c.ID]; {
		case ok:
			pos.Status = StatusClosed
			pos.RedemptionID = r.ID
			at := r.Timestamp
			pos.RedeemedAt = &at
			state.Closed = append(state.Closed, pos)
		case !now.Before(pos.MaturityDate):
			pos.Status = StatusMatured
			state.Matured = append(state.Matured, pos)
		default:
			pos.Status = StatusActive
			state.Active = append(state.Active, pos)
		}
	}

	for _, bucket := range [][]Position{state.Active, state.Matured, state.Closed} {
		slices.SortStableFunc(bucket, byMaturityThenID)
	}

	quote, _ := quotes.Get(fx.Oficial)
	state.Totals.Active = sum(state.Active, quote, opts.Converter)
	state.Totals.Matured = sum(state.Matured, quote, opts.Converter)
	return state
}

// NewPosition builds the position described by a constitution movement.
// The status is left empty; only Derive can classify a deposit.
func NewPosition(m model.Movement) Position {
	terms := m.Terms()
	if terms == nil {
		terms = &model.FixedDepositTerms{}
	}

	principal := terms.Principal
	if !(principal > 0) || math.IsInf(principal, 0) {
		principal = m.TotalAmount
	}
	if !(principal > 0) || math.IsInf(principal, 0) {
		principal = 0
	}
	rate := terms.NominalRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}
	term := max(terms.TermDays, 0)
	currency := m.Currency
	if currency == "" {
		currency = model.LocalCurrency
	}

	interest := SimpleInterest(principal, rate, term)
	if o := terms.ExpectedInterest; o != nil && *o >= 0 && !math.IsInf(*o, 0) {
		interest = *o
	}

	return Position{
		ID:               m.ID,
		AccountID:        m.AccountID,
		InstrumentID:     m.InstrumentID,
		Institution:      terms.Institution,
		Currency:         currency,
		Principal:        principal,
		NominalRate:      rate,
		EffectiveRate:    EffectiveAnnualRate(rate, term),
		TermDays:         term,
		StartDate:        m.Timestamp,
		MaturityDate:     m.Timestamp.AddDate(0, 0, term),
		ExpectedInterest: interest,
		ExpectedTotal:    principal + interest,
	}
}

func sum(positions []Position, quote fx.Quote, conv fx.Converter) Bucket {
	var b Bucket
	for _, p := range positions {
		b.Count++
		b.PrincipalARS += p.Principal
		b.ExpectedInterestARS += p.ExpectedInterest
		b.TotalARS += p.ExpectedTotal
	}
	if b.Count > 0 {
		total := b.TotalARS
		b.TotalUSD = conv.ToHard(&total, quote)
	}
	return b
}

func byTimestampThenID(a, b model.Movement) int {
	return cmp.Or(a.Timestamp.Compare(b.Timestamp), cmp.Compare(a.ID, b.ID))
}

func byMaturityThenID(a, b Position) int {
	return cmp.Or(a.MaturityDate.Compare(b.MaturityDate), cmp.Compare(a.ID, b.ID))
}

// Package fx normalizes raw exchange-rate pairs into two-sided quotes and
// converts amounts between the local and the hard currency.
//
// The default is the liquidation convention: buying hard currency always pays
// the ask, selling it always realizes the bid. Mid-market conversion is
// available as an explicit Mode and is never mixed with liquidation.
package fx

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// Benchmark names one of the FX quotes the portfolio is valued against.
type Benchmark string

const (
	// MEP is the security-implied rate used for listed equities.
	MEP Benchmark = "mep"
	// Oficial is the official rate used for local funds, deposits and local cash.
	Oficial Benchmark = "oficial"
	// Cripto is the crypto-implied rate used for crypto and stablecoins.
	Cripto Benchmark = "cripto"
	// Identity means no conversion is needed.
	Identity Benchmark = "identity"
)

// ParseBenchmark parses a published benchmark name. Identity is not a
// published rate and is rejected.
func ParseBenchmark(s string) (Benchmark, error) {
	switch b := Benchmark(strings.ToLower(strings.TrimSpace(s))); b {
	case MEP, Oficial, Cripto:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownBenchmark, s)
}

// Pair is a raw rate as published by a price source. Either side may be missing.
type Pair struct {
	Buy  *float64 `json:"buy"`
	Sell *float64 `json:"sell"`
}

// Quote is a normalized two-sided exchange rate, expressed in local currency
// per unit of hard currency.
type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
	Mid float64 `json:"mid"`
}

// Quotes holds one quote per benchmark.
type Quotes map[Benchmark]Quote

// Get returns the quote for a benchmark. Identity always yields {1,1,1}.
func (q Quotes) Get(b Benchmark) (Quote, bool) {
	if b == Identity {
		return Quote{Bid: 1, Ask: 1, Mid: 1}, true
	}
	quote, ok := q[b]
	return quote, ok
}

// Direction of a conversion.
type Direction int

const (
	LocalToHard Direction = iota
	HardToLocal
)

// BuildQuote normalizes a raw pair: bid = buy ?? sell ?? 0, ask = sell ?? buy ?? 0.
// Mid is the average of both sides, or whichever side is nonzero when the other is zero.
func BuildQuote(p *Pair) Quote {
	if p == nil {
		return Quote{}
	}
	buy, sell := finite(p.Buy), finite(p.Sell)

	var q Quote
	switch {
	case buy != nil:
		q.Bid = *buy
	case sell != nil:
		q.Bid = *sell
	}
	switch {
	case sell != nil:
		q.Ask = *sell
	case buy != nil:
		q.Ask = *buy
	}

	switch {
	case q.Bid != 0 && q.Ask != 0:
		q.Mid = (q.Bid + q.Ask) / 2
	case q.Bid != 0:
		q.Mid = q.Bid
	default:
		q.Mid = q.Ask
	}
	return q
}

// ToHardFromLocal converts local currency into hard currency at the ask.
// Returns nil when the amount is missing or the ask is unusable.
func ToHardFromLocal(amount *float64, q Quote) *float64 {
	return divide(amount, q.Ask)
}

// ToLocalFromHard converts hard currency into local currency at the bid.
// Returns nil when the amount is missing or the bid is unusable.
func ToLocalFromHard(amount *float64, q Quote) *float64 {
	return multiply(amount, q.Bid)
}

// EffectiveRate reports the rate the liquidation convention uses for a direction.
func EffectiveRate(q Quote, dir Direction) *float64 {
	rate := q.Bid
	if dir == LocalToHard {
		rate = q.Ask
	}
	return usableRate(rate)
}

func divide(amount *float64, rate float64) *float64 {
	a := finite(amount)
	if a == nil || usableRate(rate) == nil {
		return nil
	}
	v := *a / rate
	return &v
}

func multiply(amount *float64, rate float64) *float64 {
	a := finite(amount)
	if a == nil || usableRate(rate) == nil {
		return nil
	}
	v := *a * rate
	return &v
}

func usableRate(rate float64) *float64 {
	if rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	return &rate
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

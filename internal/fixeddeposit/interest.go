package fixeddeposit

import (
	"math"
	"time"
)

const daysPerYear = 365

// SimpleInterest is principal × rate × days/365.
func SimpleInterest(principal, rate float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return principal * rate * float64(days) / daysPerYear
}

// EffectiveAnnualRate compounds the simple rate earned over one term up to a
// 365-day year: (1 + rate·term/365)^(365/term) − 1. It is nil for terms of
// zero days.
func EffectiveAnnualRate(rate float64, termDays int) *float64 {
	if termDays <= 0 {
		return nil
	}
	period := rate * float64(termDays) / daysPerYear
	r := math.Pow(1+period, daysPerYear/float64(termDays)) - 1
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

// ElapsedDays counts the whole days of the term that have passed at now,
// clamped to [0, term].
func ElapsedDays(p Position, now time.Time) int {
	if !now.After(p.StartDate) {
		return 0
	}
	days := int(now.Sub(p.StartDate) / (24 * time.Hour))
	return min(days, p.TermDays)
}

// RemainingDays counts the whole days left until maturity.
func RemainingDays(p Position, now time.Time) int {
	return p.TermDays - ElapsedDays(p, now)
}

// AccruedInterest is the part of the expected interest earned by now,
// proportional to the elapsed share of the term.
func AccruedInterest(p Position, now time.Time) float64 {
	if p.TermDays <= 0 {
		return p.ExpectedInterest
	}
	return p.ExpectedInterest * float64(ElapsedDays(p, now)) / float64(p.TermDays)
}

// ProjectEarnings is the interest the deposit will still earn over the next
// horizonDays, capped by the days it has left. Closed deposits earn nothing.
func ProjectEarnings(p Position, now time.Time, horizonDays int) float64 {
	if p.Status == StatusClosed || p.TermDays <= 0 || horizonDays <= 0 {
		return 0
	}
	days := min(horizonDays, RemainingDays(p, now))
	return p.ExpectedInterest * float64(days) / float64(p.TermDays)
}

// Projection is the earnings outlook of one deposit.
type Projection struct {
	DepositID       string    `json:"depositId"`
	Status          Status    `json:"status"`
	HorizonDays     int       `json:"horizonDays"`
	ElapsedDays     int       `json:"elapsedDays"`
	RemainingDays   int       `json:"remainingDays"`
	AccruedInterest float64   `json:"accruedInterest"`
	ProjectedEarned float64   `json:"projectedEarnings"`
	MaturityDate    time.Time `json:"maturityDate"`
}

// Project builds the projection of p over horizonDays as of now.
func Project(p Position, now time.Time, horizonDays int) Projection {
	return Projection{
		DepositID:       p.ID,
		Status:          p.Status,
		HorizonDays:     horizonDays,
		ElapsedDays:     ElapsedDays(p, now),
		RemainingDays:   RemainingDays(p, now),
		AccruedInterest: AccruedInterest(p, now),
		ProjectedEarned: ProjectEarnings(p, now, horizonDays),
		MaturityDate:    p.MaturityDate,
	}
}

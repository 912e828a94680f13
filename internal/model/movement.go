package model

import (
	"fmt"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// MovementType identifies the kind of ledger entry.
type MovementType string

const (
	MovementBuy      MovementType = "buy"
	MovementSell     MovementType = "sell"
	MovementDeposit  MovementType = "deposit"
	MovementWithdraw MovementType = "withdraw"
	MovementDividend MovementType = "dividend"
	MovementInterest MovementType = "interest"
	MovementFee      MovementType = "fee"
	MovementTransfer MovementType = "transfer"
)

// ValidMovementType contains the allowed movement type values.
var ValidMovementType = map[MovementType]bool{
	MovementBuy: true, MovementSell: true, MovementDeposit: true, MovementWithdraw: true,
	MovementDividend: true, MovementInterest: true, MovementFee: true, MovementTransfer: true,
}

// ParseMovementType validates a raw movement type.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !ValidMovementType[t] {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownMovementType, s)
	}
	return t, nil
}

// Movement is an immutable ledger entry. The ledger is append-only: corrections
// are recorded as new movements, never as edits.
type Movement struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Type           MovementType  `json:"type"`
	AssetClass     AssetClass    `json:"assetClass"`
	InstrumentID   string        `json:"instrumentId,omitempty"`
	AccountID      string        `json:"accountId"`
	Quantity       float64       `json:"quantity"`
	Price          float64       `json:"price"`
	Currency       string        `json:"currency"`
	TotalAmount    float64       `json:"totalAmount"`
	Fee            *float64      `json:"fee,omitempty"`
	FXRate         *float64      `json:"fxRate,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Meta           *MovementMeta `json:"meta,omitempty"`
	IdempotencyKey string        `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time     `json:"createdAt,omitempty"`
}

// MovementMeta carries asset-class specific facts about a movement.
type MovementMeta struct {
	// PF is set on the movement that opens a fixed-term deposit.
	PF *FixedDepositTerms `json:"pf,omitempty"`
	// PFID links a redemption to the ID of the movement that opened the deposit.
	PFID string `json:"pfId,omitempty"`
	// Settlement marks entries generated by auto-settlement.
	Settlement bool `json:"settlement,omitempty"`
}

// FixedDepositTerms are the contractual terms of a fixed-term deposit.
type FixedDepositTerms struct {
	Institution string  `json:"institution"`
	Principal   float64 `json:"principal"`
	NominalRate float64 `json:"nominalRate"` // annual, as a ratio (0.35 = 35%)
	TermDays    int     `json:"termDays"`
	// ExpectedInterest overrides the simple-interest computation with the
	// amount quoted by the institution.
	ExpectedInterest *float64 `json:"expectedInterest,omitempty"`
}

// PFID returns the explicit deposit link of a movement, if any.
func (m Movement) PFID() string {
	if m.Meta == nil {
		return ""
	}
	return m.Meta.PFID
}

// Terms returns the deposit terms carried by a movement, if any.
func (m Movement) Terms() *FixedDepositTerms {
	if m.Meta == nil {
		return nil
	}
	return m.Meta.PF
}

// MovementFilter narrows a ledger query.
type MovementFilter struct {
	AccountID    string
	InstrumentID string
	AssetClass   AssetClass
}

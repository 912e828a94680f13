package request

import "github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"

// CreateMovementRequest appends one entry to the ledger.
type CreateMovementRequest struct {
	Timestamp      string              `json:"timestamp"`
	Type           string              `json:"type"`
	AssetClass     string              `json:"assetClass"`
	InstrumentID   string              `json:"instrumentId,omitempty"`
	AccountID      string              `json:"accountId"`
	Quantity       float64             `json:"quantity"`
	Price          float64             `json:"price"`
	Currency       string              `json:"currency"`
	TotalAmount    *float64            `json:"totalAmount,omitempty"`
	Fee            *float64            `json:"fee,omitempty"`
	FXRate         *float64            `json:"fxRate,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Meta           *model.MovementMeta `json:"meta,omitempty"`
	IdempotencyKey string              `json:"idempotencyKey,omitempty"`
}

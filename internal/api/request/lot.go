package request

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
)

// AllocateRequest simulates a sale against the open lots of an instrument.
// SalePrice defaults to the latest known price; Strategy to the configured
// cost-basis method.
type AllocateRequest struct {
	InstrumentID string                  `json:"instrumentId"`
	Quantity     decimal.Decimal         `json:"quantity"`
	SalePrice    decimal.NullDecimal     `json:"salePrice"`
	Strategy     string                  `json:"strategy,omitempty"`
	Manual       []lots.ManualAllocation `json:"manual,omitempty"`
}

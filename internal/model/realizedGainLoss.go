package model

import "time"

// RealizedGainLoss is the outcome of one sell movement, costed by the lot engine.
type RealizedGainLoss struct {
	MovementID       string    `json:"movementId"`
	InstrumentID     string    `json:"instrumentId"`
	TransactionDate  time.Time `json:"transactionDate"`
	Currency         string    `json:"currency"`
	SharesSold       float64   `json:"sharesSold"`
	CostBasis        float64   `json:"costBasis"`
	SaleProceeds     float64   `json:"saleProceeds"`
	RealizedGainLoss float64   `json:"realizedGainLoss"`
}

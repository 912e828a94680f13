package model

import "time"

// InstrumentPrice is the latest market snapshot for an instrument, as supplied
// by the external price feed.
type InstrumentPrice struct {
	InstrumentID    string    `json:"instrumentId"`
	Price           *float64  `json:"price"`
	UnderlyingPrice *float64  `json:"underlyingPrice,omitempty"`
	DailyChangePct  *float64  `json:"dailyChangePct,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FXRate is a raw buy/sell pair for one FX benchmark.
type FXRate struct {
	Benchmark string    `json:"benchmark"`
	Buy       *float64  `json:"buy"`
	Sell      *float64  `json:"sell"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package request

type UpdatePriceRequest struct {
	InstrumentID    string   `json:"instrumentId"`
	Price           *float64 `json:"price"`
	UnderlyingPrice *float64 `json:"underlyingPrice,omitempty"`
	DailyChangePct  *float64 `json:"dailyChangePct,omitempty"`
}

type UpdateFXRateRequest struct {
	Benchmark string   `json:"benchmark"`
	Buy       *float64 `json:"buy"`
	Sell      *float64 `json:"sell"`
}

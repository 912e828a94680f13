package validation

import (
	"math"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
)

// ValidateUpdatePrice validates a price snapshot. A missing price is allowed
// and clears the previous one.
func ValidateUpdatePrice(req request.UpdatePriceRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.InstrumentID); err != nil {
		errors["instrumentId"] = err.Error()
	}
	if req.Price != nil && !positive(*req.Price) {
		errors["price"] = "price must be positive"
	}
	if req.UnderlyingPrice != nil && !positive(*req.UnderlyingPrice) {
		errors["underlyingPrice"] = "underlyingPrice must be positive"
	}
	if req.DailyChangePct != nil && (math.IsNaN(*req.DailyChangePct) || math.IsInf(*req.DailyChangePct, 0)) {
		errors["dailyChangePct"] = "dailyChangePct must be a finite ratio"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateFXRate validates a raw benchmark pair. At least one side is required.
func ValidateUpdateFXRate(req request.UpdateFXRateRequest) error {
	errors := make(map[string]string)

	if _, err := fx.ParseBenchmark(req.Benchmark); err != nil {
		errors["benchmark"] = err.Error()
	}
	if req.Buy == nil && req.Sell == nil {
		errors["rate"] = "buy or sell is required"
	}
	if req.Buy != nil && !positive(*req.Buy) {
		errors["buy"] = "buy must be positive"
	}
	if req.Sell != nil && !positive(*req.Sell) {
		errors["sell"] = "sell must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

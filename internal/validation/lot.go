package validation

import (
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
)

// ValidateAllocate validates a sale simulation request.
func ValidateAllocate(req request.AllocateRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.InstrumentID); err != nil {
		errors["instrumentId"] = err.Error()
	}
	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.SalePrice.Valid && req.SalePrice.Decimal.IsNegative() {
		errors["salePrice"] = "salePrice cannot be negative"
	}
	if req.Strategy != "" {
		if _, err := lots.ParseStrategy(req.Strategy); err != nil {
			errors["strategy"] = err.Error()
		}
	}
	for _, m := range req.Manual {
		if m.LotID == "" || !m.Quantity.IsPositive() {
			errors["manual"] = "manual allocations need a lotId and a positive quantity"
			break
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

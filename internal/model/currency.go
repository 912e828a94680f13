package model

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// ValidateCurrency checks that code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
	}
	return nil
}

// RoundToMinorUnits rounds an amount to the number of decimals the currency uses.
// Unknown currencies are rounded to two decimals.
func RoundToMinorUnits(amount float64, code string) float64 {
	places := int32(2)
	if cur := money.GetCurrency(code); cur != nil {
		places = int32(cur.Fraction)
	}
	return decimal.NewFromFloat(amount).Round(places).InexactFloat64()
}

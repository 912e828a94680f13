package model

import (
	"fmt"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// Currency codes used throughout the engine.
const (
	LocalCurrency = "ARS"
	HardCurrency  = "USD"
)

// AssetClass tags every instrument and ledger entry with the valuation rules that apply to it.
type AssetClass string

const (
	AssetClassCEDEAR  AssetClass = "CEDEAR"
	AssetClassAccion  AssetClass = "ACCION"
	AssetClassCrypto  AssetClass = "CRYPTO"
	AssetClassStable  AssetClass = "STABLE"
	AssetClassFCI     AssetClass = "FCI"
	AssetClassPF      AssetClass = "PF"
	AssetClassCashARS AssetClass = "CASH_ARS"
	AssetClassCashUSD AssetClass = "CASH_USD"
)

var assetClasses = map[AssetClass]bool{
	AssetClassCEDEAR:  true,
	AssetClassAccion:  true,
	AssetClassCrypto:  true,
	AssetClassStable:  true,
	AssetClassFCI:     true,
	AssetClassPF:      true,
	AssetClassCashARS: true,
	AssetClassCashUSD: true,
}

// ParseAssetClass validates a raw asset class tag.
func ParseAssetClass(s string) (AssetClass, error) {
	c := AssetClass(s)
	if !assetClasses[c] {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownAssetClass, s)
	}
	return c, nil
}

// IsCash reports whether the class is a plain currency balance.
func (c AssetClass) IsCash() bool {
	return c == AssetClassCashARS || c == AssetClassCashUSD
}

// IsEquity reports whether the class trades like a listed share.
func (c AssetClass) IsEquity() bool {
	return c == AssetClassCEDEAR || c == AssetClassAccion
}

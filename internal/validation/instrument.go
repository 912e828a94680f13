package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// ValidateCreateInstrument validates an instrument creation request.
// CEDEARs need a positive ratio to expose their underlying.
func ValidateCreateInstrument(req request.CreateInstrumentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if len(req.Symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	class, err := model.ParseAssetClass(req.AssetClass)
	if err != nil {
		errors["assetClass"] = fmt.Sprintf("invalid asset class: %s", req.AssetClass)
	}

	if err := model.ValidateCurrency(req.Currency); err != nil {
		errors["currency"] = err.Error()
	}

	if req.Ratio < 0 {
		errors["ratio"] = "ratio cannot be negative"
	} else if class == model.AssetClassCEDEAR && req.Ratio == 0 {
		errors["ratio"] = "ratio is required for CEDEARs"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

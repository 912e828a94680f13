package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// ValidateCreateMovement validates a ledger entry before it is appended.
//
// Required fields:
//   - timestamp: YYYY-MM-DD or RFC3339
//   - type: one of the movement types
//   - assetClass: one of the asset classes
//   - accountId: non-empty
//   - currency: ISO 4217 code
//   - quantity: positive, except for transfers which may be negative
//   - price, totalAmount, fee: non-negative when given
//
// Fixed-term deposits are local-currency only, and openings must carry their
// terms in meta.pf.
func ValidateCreateMovement(req request.CreateMovementRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Timestamp) == "" {
		errors["timestamp"] = "timestamp is required"
	} else if _, err := ParseTime(req.Timestamp); err != nil {
		errors["timestamp"] = err.Error()
	}

	movementType, err := model.ParseMovementType(req.Type)
	if err != nil {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	class, err := model.ParseAssetClass(req.AssetClass)
	if err != nil {
		errors["assetClass"] = fmt.Sprintf("invalid asset class: %s", req.AssetClass)
	}

	if strings.TrimSpace(req.AccountID) == "" {
		errors["accountId"] = "accountId is required"
	}

	if err := model.ValidateCurrency(req.Currency); err != nil {
		errors["currency"] = err.Error()
	} else if class == model.AssetClassPF && !strings.EqualFold(req.Currency, model.LocalCurrency) {
		errors["currency"] = fmt.Sprintf("fixed-term deposits must be in %s", model.LocalCurrency)
	}

	switch {
	case math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0):
		errors["quantity"] = "quantity must be a finite number"
	case movementType == model.MovementTransfer:
		if req.Quantity == 0 {
			errors["quantity"] = "quantity must be non-zero"
		}
	case req.Quantity <= 0:
		errors["quantity"] = "quantity must be positive"
	}

	if !nonNegative(req.Price) {
		errors["price"] = "price must be a non-negative number"
	}
	if req.TotalAmount != nil && !nonNegative(*req.TotalAmount) {
		errors["totalAmount"] = "totalAmount must be a non-negative number"
	}
	if req.Fee != nil && !nonNegative(*req.Fee) {
		errors["fee"] = "fee must be a non-negative number"
	}
	if req.FXRate != nil && !(*req.FXRate > 0) {
		errors["fxRate"] = "fxRate must be positive"
	}

	if class == model.AssetClassPF && movementType == model.MovementBuy {
		validateDepositTerms(req.Meta, errors)
	}
	if req.InstrumentID != "" {
		if err := ValidateUUID(req.InstrumentID); err != nil {
			errors["instrumentId"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateDepositTerms(meta *model.MovementMeta, errors map[string]string) {
	if meta == nil || meta.PF == nil {
		errors["meta.pf"] = "fixed-term deposit terms are required"
		return
	}
	terms := meta.PF
	if strings.TrimSpace(terms.Institution) == "" {
		errors["meta.pf.institution"] = "institution is required"
	}
	if !(terms.Principal > 0) || math.IsInf(terms.Principal, 0) {
		errors["meta.pf.principal"] = "principal must be positive"
	}
	if !nonNegative(terms.NominalRate) {
		errors["meta.pf.nominalRate"] = "nominalRate must be a non-negative ratio"
	}
	if terms.TermDays <= 0 {
		errors["meta.pf.termDays"] = "termDays must be positive"
	}
	if terms.ExpectedInterest != nil && !nonNegative(*terms.ExpectedInterest) {
		errors["meta.pf.expectedInterest"] = "expectedInterest must be non-negative"
	}
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

package request

import (
	"fmt"
	"strconv"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// DefaultProjectionDays is the horizon used when none is given.
const DefaultProjectionDays = 30

// ParseProjectionDays reads the projection horizon from the days query parameter.
func ParseProjectionDays(raw string) (int, error) {
	if raw == "" {
		return DefaultProjectionDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("days must be a non-negative integer, got %q", raw)
	}
	return days, nil
}

// ParseMovementFilter builds a ledger filter from query parameters.
func ParseMovementFilter(accountID, instrumentID, assetClass string) (model.MovementFilter, error) {
	filter := model.MovementFilter{AccountID: accountID, InstrumentID: instrumentID}
	if assetClass != "" {
		class, err := model.ParseAssetClass(assetClass)
		if err != nil {
			return model.MovementFilter{}, err
		}
		filter.AssetClass = class
	}
	return filter, nil
}

package lots

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// Strategy defines how a sale is matched against purchase lots.
type Strategy string

const (
	// PPP treats all lots as one pool at their weighted-average cost.
	PPP Strategy = "PPP"
	// FIFO consumes the oldest lots first.
	FIFO Strategy = "FIFO"
	// LIFO consumes the newest lots first.
	LIFO Strategy = "LIFO"
	// Cheapest consumes the lowest unit cost first, oldest first on ties.
	Cheapest Strategy = "CHEAPEST"
	// Manual consumes caller-specified quantities from specific lots.
	Manual Strategy = "MANUAL"
)

func (s Strategy) String() string { return string(s) }

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case PPP, FIFO, LIFO, Cheapest, Manual:
		return true
	}
	return false
}

// ParseStrategy parses a strategy tag, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownStrategy, s)
	}
	return st, nil
}

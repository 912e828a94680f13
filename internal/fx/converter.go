package fx

import "fmt"

// Mode selects which side of a quote conversions use.
type Mode int

const (
	// Liquidation pays the ask when buying hard currency and receives the bid when selling it.
	Liquidation Mode = iota
	// Mid converts both ways at the mid-market rate.
	Mid
)

func (m Mode) String() string {
	switch m {
	case Liquidation:
		return "liquidation"
	case Mid:
		return "mid"
	default:
		return "unknown"
	}
}

// ParseMode parses a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "liquidation", "":
		return Liquidation, nil
	case "mid":
		return Mid, nil
	default:
		return 0, fmt.Errorf("unknown fx mode: %q", s)
	}
}

// Converter applies one Mode consistently. The zero value uses Liquidation.
type Converter struct {
	Mode Mode
}

// ToHard converts a local-currency amount into hard currency.
func (c Converter) ToHard(amount *float64, q Quote) *float64 {
	if c.Mode == Mid {
		return divide(amount, q.Mid)
	}
	return ToHardFromLocal(amount, q)
}

// ToLocal converts a hard-currency amount into local currency.
func (c Converter) ToLocal(amount *float64, q Quote) *float64 {
	if c.Mode == Mid {
		return multiply(amount, q.Mid)
	}
	return ToLocalFromHard(amount, q)
}

// Rate reports the rate this converter uses for a direction.
func (c Converter) Rate(q Quote, dir Direction) *float64 {
	if c.Mode == Mid {
		return usableRate(q.Mid)
	}
	return EffectiveRate(q, dir)
}

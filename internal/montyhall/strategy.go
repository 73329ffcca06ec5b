package montyhall

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy is the contestant's rule for revising the pick after the reveal.
// The zero value is not a valid strategy.
type Strategy uint8

const (
	Stay Strategy = iota + 1
	Random
	Switch
)

// Strategies lists every strategy in report order.
func Strategies() []Strategy {
	return []Strategy{Stay, Random, Switch}
}

// ParseStrategy maps "stay", "random" or "switch" (any case) to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stay":
		return Stay, nil
	case "random":
		return Random, nil
	case "switch":
		return Switch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// Validate returns ErrInvalidStrategy unless s is one of the known strategies.
func (s Strategy) Validate() error {
	switch s {
	case Stay, Random, Switch:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStrategy, uint8(s))
	}
}

func (s Strategy) String() string {
	switch s {
	case Stay:
		return "stay"
	case Random:
		return "random"
	case Switch:
		return "switch"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Label is the capitalised name used in reports.
func (s Strategy) Label() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// ExpectedWinRate is the exact long-run win probability of the strategy.
func (s Strategy) ExpectedWinRate() decimal.Decimal {
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	switch s {
	case Stay:
		return third
	case Random:
		return decimal.NewFromFloat(0.5)
	case Switch:
		return decimal.NewFromInt(1).Sub(third)
	default:
		return decimal.Zero
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package sim

import "fmt"

// Action is one of the three discrete decisions a policy can take.
type Action int

const (
	Hold Action = 0
	Buy  Action = 1
	Sell Action = 2
)

// NumActions is the size of the discrete action space.
const NumActions = 3

func (a Action) String() string {
	switch a {
	case Hold:
		return "HOLD"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid reports whether a is inside the action space.
func (a Action) Valid() bool {
	return a >= Hold && a <= Sell
}

// SanitizeAction maps any out-of-range value to Hold. The second return
// value is true when the input had to be coerced.
func SanitizeAction(a Action) (Action, bool) {
	if !a.Valid() {
		return Hold, true
	}
	return a, false
}

// ParseAction accepts the action names (case-insensitive) or their numeric
// values.
func ParseAction(s string) (Action, error) {
	switch s {
	case "0", "hold", "HOLD", "Hold":
		return Hold, nil
	case "1", "buy", "BUY", "Buy":
		return Buy, nil
	case "2", "sell", "SELL", "Sell":
		return Sell, nil
	}
	return Hold, fmt.Errorf("sim: unknown action %q", s)
}

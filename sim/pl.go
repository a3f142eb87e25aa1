package sim

import "math"

// RealizedPnL returns the profit of closing a position of signed size at
// exit, as a fraction of capital scaled by |size|.
func RealizedPnL(size, entry, exit float64) float64 {
	if size == 0 || entry == 0 {
		return 0
	}
	if size > 0 {
		return (exit - entry) / entry * math.Abs(size)
	}
	return (entry - exit) / entry * math.Abs(size)
}

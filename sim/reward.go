package sim

import "math"

// Reward computes the one-step reward of holding position from current to
// next close. The position passed in is the one that results from the
// action just applied, so the reward attributes the next price move to the
// decision that created the exposure.
//
// Commission and slippage are charged on |position| every step the
// position is held; the activity penalty is charged on every non-HOLD
// action.
func Reward(position, current, next float64, a Action, p Params) float64 {
	var r float64

	if position != 0 {
		size := math.Abs(position)
		if position > 0 {
			r = (next - current) / current * size
		} else {
			r = (current - next) / current * size
		}
		r -= size * p.CommissionRate
		r -= size * p.SlippageRate
	}

	if a != Hold {
		r -= p.ActivityPenalty
	}
	return r
}

package policy

import (
	"math"

	"github.com/rustyeddy/tradegym/sim"
)

// DefaultThreshold is a 1% move between the last two closes.
const DefaultThreshold = 0.01

// Threshold is a mean-reversion rule: buy after a drop larger than Pct,
// sell after a rise larger than Pct, otherwise hold.
type Threshold struct {
	Pct float64
}

func NewThreshold(pct float64) *Threshold {
	return &Threshold{Pct: pct}
}

func (p *Threshold) Name() string { return "threshold" }
func (p *Threshold) Reset(int64) {}

func (p *Threshold) Act(obs []float64, _ sim.Info) sim.Action {
	r, ok := LastCloseReturn(obs)
	if !ok {
		return sim.Hold
	}
	change := math.Exp(r) - 1
	switch {
	case change < -p.Pct:
		return sim.Buy
	case change > p.Pct:
		return sim.Sell
	}
	return sim.Hold
}

// LastCloseReturn extracts the close-to-close log return of the newest
// candle from an observation vector. It fails for windows of one candle,
// whose only row holds raw prices.
func LastCloseReturn(obs []float64) (float64, bool) {
	if len(obs) < 2 || (len(obs)-2)%5 != 0 {
		return 0, false
	}
	w := (len(obs) - 2) / 5
	if w < 2 {
		return 0, false
	}
	return obs[5*(w-1)+3], true
}

package policy

import (
	"math"

	"github.com/rustyeddy/tradegym/indicators"
	"github.com/rustyeddy/tradegym/sim"
)

const (
	DefaultFastEMA = 12
	DefaultSlowEMA = 26
)

// EMACross buys when the fast EMA crosses above the slow EMA and sells on
// the opposite cross. Both EMAs are recomputed over the closes in each
// observation, so a cross is only seen once the window holds at least
// Slow+1 candles.
type EMACross struct {
	Fast int
	Slow int

	// MinSpread filters crosses where |fast-slow|/slow is below this ratio.
	MinSpread float64
}

func NewEMACross(fast, slow int) *EMACross {
	if fast <= 0 || slow <= 0 || fast >= slow {
		panic("EMACross requires 0 < fast < slow")
	}
	return &EMACross{Fast: fast, Slow: slow}
}

func (p *EMACross) Name() string { return "ema-cross" }
func (p *EMACross) Reset(int64) {}

func (p *EMACross) Act(obs []float64, _ sim.Info) sim.Action {
	closes, ok := WindowCloses(obs)
	if !ok || len(closes) < p.Slow+1 {
		return sim.Hold
	}

	fast := indicators.EMASeries(closes, p.Fast)
	slow := indicators.EMASeries(closes, p.Slow)
	n := len(closes) - 1

	prevRel := relation(fast[n-1], slow[n-1])
	rel := relation(fast[n], slow[n])
	if rel == 0 || rel == prevRel {
		return sim.Hold
	}

	if p.MinSpread > 0 && slow[n] != 0 {
		if math.Abs(fast[n]-slow[n])/slow[n] < p.MinSpread {
			return sim.Hold
		}
	}

	if rel > 0 {
		return sim.Buy
	}
	return sim.Sell
}

func relation(fast, slow float64) int {
	switch {
	case fast > slow:
		return 1
	case fast < slow:
		return -1
	}
	return 0
}

// WindowCloses rebuilds the closes of the observation window from the raw
// oldest close and the log returns that follow it.
func WindowCloses(obs []float64) ([]float64, bool) {
	if len(obs) < 7 || (len(obs)-2)%5 != 0 {
		return nil, false
	}
	w := (len(obs) - 2) / 5
	closes := make([]float64, w)
	closes[0] = obs[3]
	for i := 1; i < w; i++ {
		closes[i] = closes[i-1] * math.Exp(obs[5*i+3])
	}
	return closes, true
}

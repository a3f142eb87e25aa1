package policy

import "github.com/rustyeddy/tradegym/sim"

// Hold never trades.
type Hold struct{}

func (Hold) Name() string { return "hold" }
func (Hold) Reset(int64) {}
func (Hold) Act([]float64, sim.Info) sim.Action { return sim.Hold }

package policy

import "github.com/rustyeddy/tradegym/sim"

// Replay plays a fixed action list and holds once it runs out.
type Replay struct {
	Actions []sim.Action
	next    int
}

func NewReplay(actions ...sim.Action) *Replay {
	return &Replay{Actions: actions}
}

func (p *Replay) Name() string { return "replay" }

func (p *Replay) Reset(int64) { p.next = 0 }

func (p *Replay) Act([]float64, sim.Info) sim.Action {
	if p.next >= len(p.Actions) {
		return sim.Hold
	}
	a := p.Actions[p.next]
	p.next++
	return a
}

package policy

import (
	"math/rand"

	"github.com/rustyeddy/tradegym/sim"
)

// Random samples uniformly from the action space.
type Random struct {
	rng *rand.Rand
}

func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(0))}
}

func (p *Random) Name() string { return "random" }

func (p *Random) Reset(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

func (p *Random) Act([]float64, sim.Info) sim.Action {
	return sim.Action(p.rng.Intn(sim.NumActions))
}

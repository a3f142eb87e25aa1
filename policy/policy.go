package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/tradegym/sim"
)

// Policy picks one action per step from the latest observation.
//
// Reset is called at the start of every episode; seeded policies must
// replay the same actions for the same seed.
type Policy interface {
	Name() string
	Reset(seed int64)
	Act(obs []float64, info sim.Info) sim.Action
}

// Factory builds a fresh policy instance.
type Factory func() Policy

var registry = map[string]Factory{
	"ema-cross": func() Policy { return NewEMACross(DefaultFastEMA, DefaultSlowEMA) },
	"hold":      func() Policy { return Hold{} },
	"random":    func() Policy { return NewRandom() },
	"threshold": func() Policy { return NewThreshold(DefaultThreshold) },
}

// Register adds or replaces a named policy.
func Register(name string, f Factory) {
	registry[strings.ToLower(name)] = f
}

// Names lists the registered policies, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ByName returns a new instance of a registered policy.
func ByName(name string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "noop", "none":
		key = "hold"
	}
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

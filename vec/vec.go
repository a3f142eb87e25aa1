// Package vec steps several independent engines over the same series in
// parallel.
package vec

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradegym/market"
	"github.com/rustyeddy/tradegym/sim"
	"golang.org/x/sync/errgroup"
)

// Result is one engine's outcome for a vector step. AutoReset marks an
// entry produced by resetting an engine whose previous episode ended; the
// action for that engine was ignored and Reward is zero.
type Result struct {
	sim.StepResult
	AutoReset bool
}

// Env is a fixed-size vector of engines. Engines share only the read-only
// series. Env itself must not be stepped concurrently.
type Env struct {
	envs       []*sim.Engine
	needsReset []bool
	limit      int
}

func New(n int, series *market.Series, params sim.Params, opts ...sim.Option) (*Env, error) {
	if n <= 0 {
		return nil, fmt.Errorf("vec: need at least one env, got %d", n)
	}

	v := &Env{
		envs:       make([]*sim.Engine, n),
		needsReset: make([]bool, n),
		limit:      -1,
	}
	for i := range v.envs {
		e, err := sim.NewEngine(series, params, opts...)
		if err != nil {
			return nil, fmt.Errorf("vec: env %d: %w", i, err)
		}
		v.envs[i] = e
	}
	return v, nil
}

func (v *Env) Len() int { return len(v.envs) }

// At returns the i-th engine.
func (v *Env) At(i int) *sim.Engine { return v.envs[i] }

// SetConcurrency bounds the number of engines stepped at once. n <= 0
// removes the bound.
func (v *Env) SetConcurrency(n int) {
	if n <= 0 {
		n = -1
	}
	v.limit = n
}

// Reset resets every engine and returns their observations and infos.
func (v *Env) Reset() ([][]float64, []sim.ResetInfo, error) {
	obs := make([][]float64, len(v.envs))
	infos := make([]sim.ResetInfo, len(v.envs))
	for i, e := range v.envs {
		o, info, err := e.Reset()
		if err != nil {
			return nil, nil, fmt.Errorf("vec: env %d: %w", i, err)
		}
		obs[i], infos[i] = o, info
		v.needsReset[i] = false
	}
	return obs, infos, nil
}

// Step applies actions[i] to engine i, all engines in parallel. An engine
// whose episode ended on the previous call is reset instead.
func (v *Env) Step(ctx context.Context, actions []sim.Action) ([]Result, error) {
	if len(actions) != len(v.envs) {
		return nil, fmt.Errorf("vec: got %d actions for %d envs", len(actions), len(v.envs))
	}

	out := make([]Result, len(v.envs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(v.limit)

	for i := range v.envs {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := v.stepOne(i, actions[i])
			if err != nil {
				return fmt.Errorf("vec: env %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Env) stepOne(i int, a sim.Action) (Result, error) {
	e := v.envs[i]
	if v.needsReset[i] || e.State() == sim.Uninitialized {
		obs, info, err := e.Reset()
		if err != nil {
			return Result{}, err
		}
		v.needsReset[i] = false
		return Result{StepResult: sim.StepResult{Observation: obs, Info: info.Info()}, AutoReset: true}, nil
	}

	res, err := e.Step(a)
	if err != nil {
		return Result{}, err
	}
	v.needsReset[i] = res.Done
	return Result{StepResult: res}, nil
}

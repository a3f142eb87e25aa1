package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradegym/journal"
	"github.com/rustyeddy/tradegym/metrics"
	"github.com/rustyeddy/tradegym/pkg/id"
	"github.com/rustyeddy/tradegym/policy"
	"github.com/rustyeddy/tradegym/sim"
	"go.uber.org/zap"
)

// Runner drives an engine with a policy for a number of episodes,
// journaling trades, equity and episode summaries as it goes.
type Runner struct {
	Env     *sim.Engine
	Policy  policy.Policy
	Journal journal.Journal
	Metrics *metrics.Collector
	Logger  *zap.Logger

	// Seed is passed to Policy.Reset, offset by the episode index.
	Seed int64
	// KeepHistory copies each episode's trades and equity curve into its
	// EpisodeResult.
	KeepHistory bool
}

// EpisodeResult is the outcome of one episode. Stats is only meaningful
// when HasStats is true.
type EpisodeResult struct {
	ID          string
	Steps       int
	TotalReward float64
	Stats       sim.Statistics
	HasStats    bool

	Record journal.EpisodeRecord
	Trades []journal.TradeRecord
	Equity []journal.EquitySnapshot
}

// Run executes episodes back to back. Each episode:
//  1. resets the engine and the policy
//  2. steps with the policy's action until done
//  3. journals closed trades and one equity snapshot per step
//  4. records the episode summary
//
// When ctx is cancelled the finished episodes are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, episodes int) ([]EpisodeResult, error) {
	if r.Env == nil {
		return nil, errors.New("backtest: Env is required")
	}
	if r.Policy == nil {
		return nil, errors.New("backtest: Policy is required")
	}
	if episodes <= 0 {
		return nil, fmt.Errorf("backtest: episodes must be > 0, got %d", episodes)
	}
	if r.Journal == nil {
		r.Journal = journal.Nop{}
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}

	out := make([]EpisodeResult, 0, episodes)
	for ep := 0; ep < episodes; ep++ {
		res, err := r.runEpisode(ctx, int64(ep))
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *Runner) runEpisode(ctx context.Context, ep int64) (EpisodeResult, error) {
	started := time.Now()
	res := EpisodeResult{ID: id.NewAt(started)}
	log := r.Logger.With(zap.String("episode", res.ID), zap.String("policy", r.Policy.Name()))

	obs, resetInfo, err := r.Env.Reset()
	if err != nil {
		return res, fmt.Errorf("reset: %w", err)
	}
	info := resetInfo.Info()
	r.Policy.Reset(r.Seed + ep)

	series := r.Env.Series()
	seen := 0
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		step, err := r.Env.Step(r.Policy.Act(obs, info))
		if err != nil {
			return res, fmt.Errorf("episode %s step %d: %w", res.ID, res.Steps, err)
		}
		res.Steps++
		res.TotalReward += step.Reward
		r.Metrics.ObserveStep(step)

		// the fill happened on the candle just before the new cursor
		filledAt := series.At(step.Info.Step - 1).Time

		for _, t := range r.Env.TradesSince(seen) {
			rec := journal.TradeRecord{
				EpisodeID:   res.ID,
				TradeID:     id.New(),
				Step:        t.Step,
				Side:        t.Side(),
				Position:    t.Position,
				EntryPrice:  t.EntryPrice,
				ExitPrice:   t.ExitPrice,
				RealizedPnL: t.RealizedPnL,
				ClosedAt:    series.At(t.Step).Time,
			}
			if err := r.Journal.RecordTrade(rec); err != nil {
				return res, fmt.Errorf("journal trade: %w", err)
			}
			if r.KeepHistory {
				res.Trades = append(res.Trades, rec)
			}
			r.Metrics.ObserveTrade(t)
			seen++
		}

		snap := journal.EquitySnapshot{
			EpisodeID: res.ID,
			Step:      step.Info.Step,
			Time:      filledAt,
			Balance:   step.Info.Balance,
			Position:  step.Info.Position,
			TotalPnL:  step.Info.TotalPnL,
			Price:     step.Info.CurrentPrice,
			Reward:    step.Reward,
		}
		if err := r.Journal.RecordEquity(snap); err != nil {
			return res, fmt.Errorf("journal equity: %w", err)
		}
		if r.KeepHistory {
			res.Equity = append(res.Equity, snap)
		}

		obs, info = step.Observation, step.Info
		if step.Done {
			break
		}
	}

	res.Stats, res.HasStats = r.Env.Statistics()
	acct := r.Env.Account()
	res.Record = journal.EpisodeRecord{
		ID:             res.ID,
		Policy:         r.Policy.Name(),
		Dataset:        series.Source,
		Steps:          res.Steps,
		TotalReward:    res.TotalReward,
		TotalReturn:    res.Stats.TotalReturn,
		Sharpe:         res.Stats.SharpeRatio,
		MaxDrawdown:    res.Stats.MaxDrawdown,
		WinRate:        res.Stats.WinRate,
		Trades:         res.Stats.TotalTrades,
		Wins:           res.Stats.WinningTrades,
		InitialBalance: r.Env.Params().InitialBalance,
		FinalBalance:   acct.Balance,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	if err := r.Journal.RecordEpisode(res.Record); err != nil {
		return res, fmt.Errorf("journal episode: %w", err)
	}
	r.Metrics.ObserveEpisode(res.TotalReward)

	log.Info("episode finished",
		zap.Int("steps", res.Steps),
		zap.Float64("total_reward", res.TotalReward),
		zap.Float64("final_balance", acct.Balance),
		zap.Int("trades", res.Stats.TotalTrades),
		zap.Bool("has_stats", res.HasStats),
	)
	return res, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/tradegym/backtest"
	"github.com/rustyeddy/tradegym/config"
	"github.com/rustyeddy/tradegym/journal"
	"github.com/rustyeddy/tradegym/market"
	"github.com/rustyeddy/tradegym/policy"
	"github.com/rustyeddy/tradegym/report"
	"github.com/rustyeddy/tradegym/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	episodes int
	policy   string
	seed     int64
	dataCSV  string
	xlsx     string
}

func newRunCmd(rc *RootConfig) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a policy for a number of episodes",
		Long: `Run a policy over the configured candles and print per-episode statistics.

When data.validation_split is set the episodes run on the leading part of the
series and one more episode is evaluated on the held-out tail.

Examples:
  tradegym run --policy threshold --episodes 10
  tradegym run --config gym.yaml --data btc_1h.csv --xlsx last.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, rc, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.episodes, "episodes", "e", 0, "number of episodes (overrides config)")
	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "", "policy name: hold|random|threshold|ema-cross (overrides config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "policy seed (overrides config)")
	cmd.Flags().StringVar(&opts.dataCSV, "data", "", "OHLCV CSV file (overrides config)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write the last episode to this Excel file")
	return cmd
}

func runRun(cmd *cobra.Command, rc *RootConfig, opts *runOptions) error {
	cfg := rc.cfg
	if cmd.Flags().Changed("episodes") {
		cfg.Run.Episodes = opts.episodes
	}
	if cmd.Flags().Changed("policy") {
		cfg.Run.Policy = opts.policy
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed = opts.seed
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.CSV = opts.dataCSV
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	series, err := cfg.LoadSeries()
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	train, validation := series, (*market.Series)(nil)
	if cfg.Data.ValidationSplit > 0 {
		if train, validation, err = series.Split(cfg.Data.ValidationSplit); err != nil {
			return err
		}
	}

	pol, err := policy.ByName(cfg.Run.Policy)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running %d episode(s) of %q on %s (%d candles)\n\n",
		cfg.Run.Episodes, pol.Name(), train.Source, train.Len())

	results, err := runEpisodes(ctx, rc.log, train, cfg, pol, j, cfg.Run.Episodes, opts.xlsx != "")
	if len(results) > 0 {
		report.PrintStatistics(out, results)
	}
	if err != nil {
		return err
	}

	if opts.xlsx != "" {
		last := results[len(results)-1]
		if err := report.WriteXLSX(opts.xlsx, last.Record, last.Trades, last.Equity); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		fmt.Fprintf(out, "\nEpisode %s written to %s\n", last.ID, opts.xlsx)
	}

	if validation == nil {
		return nil
	}
	if validation.Len() < cfg.Env.WindowSize+1 {
		rc.log.Warn("validation split too short, skipping evaluation",
			zap.Int("candles", validation.Len()),
			zap.Int("window_size", cfg.Env.WindowSize),
		)
		return nil
	}

	fmt.Fprintf(out, "\nValidation on %s (%d candles)\n\n", validation.Source, validation.Len())
	evalResults, err := runEpisodes(ctx, rc.log, validation, cfg, pol, j, 1, false)
	if len(evalResults) > 0 {
		report.PrintStatistics(out, evalResults)
	}
	return err
}

func runEpisodes(ctx context.Context, log *zap.Logger, series *market.Series, cfg *config.Config,
	pol policy.Policy, j journal.Journal, episodes int, keep bool) ([]backtest.EpisodeResult, error) {
	env, err := sim.NewEngine(series, cfg.Env, sim.WithLogger(log))
	if err != nil {
		return nil, err
	}

	r := &backtest.Runner{
		Env:         env,
		Policy:      pol,
		Journal:     j,
		Logger:      log,
		Seed:        cfg.Run.Seed,
		KeepHistory: keep,
	}
	return r.Run(ctx, episodes)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile, jc.EpisodesFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

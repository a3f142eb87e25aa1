package cli

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/tradegym/journal"
	"github.com/rustyeddy/tradegym/report"
	"github.com/spf13/cobra"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the SQLite journal",
		Long: `Query and display records from the SQLite journal.

Subcommands:
  episodes           - List recorded episodes, newest first
  trades <episode>   - Show the trades of one episode
  trade <trade-id>   - Show one trade

Examples:
  tradegym journal episodes --limit 10
  tradegym journal trades 01J0ZQ3V4M6C9W1K8T2R5B7N0A
  tradegym --db ./runs.db journal trade 01J0ZQ3V4M6C9W1K8T2R5B7N0B`,
	}

	var limit int
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "List recorded episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := rc.openSQLite()
			if err != nil {
				return err
			}
			defer j.Close()

			eps, err := j.ListEpisodes(limit)
			if err != nil {
				return fmt.Errorf("list episodes: %w", err)
			}
			if len(eps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No episodes recorded.")
				return nil
			}
			report.PrintEpisodes(cmd.OutOrStdout(), eps)
			return nil
		},
	}
	episodesCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of episodes (0 for all)")

	tradesCmd := &cobra.Command{
		Use:   "trades <episode-id>",
		Short: "Show the trades of one episode as Org-mode blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := rc.openSQLite()
			if err != nil {
				return err
			}
			defer j.Close()

			trades, err := j.ListTradesByEpisode(args[0])
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}
			if len(trades) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No trades for episode %s.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
			return nil
		},
	}

	tradeCmd := &cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Show one trade as an Org-mode block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := rc.openSQLite()
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
			return nil
		},
	}

	cmd.AddCommand(episodesCmd, tradesCmd, tradeCmd)
	return cmd
}

func (rc *RootConfig) openSQLite() (*journal.SQLite, error) {
	path := rc.cfg.Journal.DBPath
	if path == "" {
		return nil, errors.New("no journal database: set --db or journal.db_path")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rustyeddy/tradegym/backtest"
	"github.com/rustyeddy/tradegym/journal"
)

func pct(x float64) string { return fmt.Sprintf("%.2f%%", x*100) }

func numberColumns(from, to int) []table.ColumnConfig {
	var cfgs []table.ColumnConfig
	for n := from; n <= to; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return cfgs
}

// PrintStatistics renders one row per episode followed by the summary
// across episodes. Episodes too short for statistics show "-".
func PrintStatistics(w io.Writer, results []backtest.EpisodeResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("EPISODE STATISTICS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Episode", "Steps", "Reward", "Return", "Sharpe", "Max DD", "Win Rate", "Trades", "Final Balance"})

	for i, r := range results {
		if !r.HasStats {
			t.AppendRow(table.Row{i + 1, r.Steps, fmt.Sprintf("%.4f", r.TotalReward), "-", "-", "-", "-", "-", "-"})
			continue
		}
		s := r.Stats
		t.AppendRow(table.Row{
			i + 1,
			r.Steps,
			fmt.Sprintf("%.4f", r.TotalReward),
			pct(s.TotalReturn),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%.2f", s.MaxDrawdown),
			pct(s.WinRate),
			s.TotalTrades,
			fmt.Sprintf("%.2f", s.FinalBalance),
		})
	}

	sum := backtest.Summarize(results)
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d episodes", sum.Episodes),
		"",
		fmt.Sprintf("%.4f ± %.4f", sum.MeanReward, sum.StdReward),
		fmt.Sprintf("%s ± %s", pct(sum.MeanReturn), pct(sum.StdReturn)),
		"",
		"",
		fmt.Sprintf("%s ± %s", pct(sum.MeanWinRate), pct(sum.StdWinRate)),
		"",
		"",
	})
	t.SetColumnConfigs(numberColumns(2, 9))
	t.Render()
}

// PrintEpisodes lists journaled episodes, newest first as given.
func PrintEpisodes(w io.Writer, episodes []journal.EpisodeRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Started", "Policy", "Dataset", "Steps", "Reward", "Return", "Trades", "Win Rate"})

	for _, e := range episodes {
		t.AppendRow(table.Row{
			e.ID,
			e.StartedAt.UTC().Format(time.RFC3339),
			e.Policy,
			e.Dataset,
			e.Steps,
			fmt.Sprintf("%.4f", e.TotalReward),
			pct(e.TotalReturn),
			e.Trades,
			pct(e.WinRate),
		})
	}
	t.SetColumnConfigs(numberColumns(5, 9))
	t.Render()
}

// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader   = []string{"episode_id", "trade_id", "step", "side", "position", "entry_price", "exit_price", "realized_pnl", "closed_at"}
	equityHeader  = []string{"episode_id", "step", "time", "balance", "position", "total_pnl", "price", "reward"}
	episodeHeader = []string{"episode_id", "policy", "dataset", "steps", "total_reward", "total_return", "sharpe", "max_drawdown", "win_rate", "trades", "wins", "initial_balance", "final_balance", "started_at", "finished_at"}
)

// CSVJournal writes trades and equity to two CSV files. Episodes go to a
// third file when a path for it is given.
type CSVJournal struct {
	trades   *csv.Writer
	equity   *csv.Writer
	episodes *csv.Writer
	files    []*os.File
}

func NewCSV(tradesPath, equityPath, episodesPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	var err error
	if j.trades, err = j.open(tradesPath, tradeHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.equity, err = j.open(equityPath, equityHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if episodesPath != "" {
		if j.episodes, err = j.open(episodesPath, episodeHeader); err != nil {
			j.closeFiles()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) open(path string, header []string) (*csv.Writer, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	j.files = append(j.files, fh)

	w := csv.NewWriter(fh)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	w.Flush()
	return w, w.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return writeRow(j.trades, []string{
		t.EpisodeID,
		t.TradeID,
		strconv.Itoa(t.Step),
		t.Side,
		f(t.Position),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.RealizedPnL),
		ts(t.ClosedAt),
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return writeRow(j.equity, []string{
		e.EpisodeID,
		strconv.Itoa(e.Step),
		ts(e.Time),
		f(e.Balance),
		f(e.Position),
		f(e.TotalPnL),
		f(e.Price),
		f(e.Reward),
	})
}

func (j *CSVJournal) RecordEpisode(r EpisodeRecord) error {
	if j.episodes == nil {
		return nil
	}
	return writeRow(j.episodes, []string{
		r.ID,
		r.Policy,
		r.Dataset,
		strconv.Itoa(r.Steps),
		f(r.TotalReward),
		f(r.TotalReturn),
		f(r.Sharpe),
		f(r.MaxDrawdown),
		f(r.WinRate),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		f(r.InitialBalance),
		f(r.FinalBalance),
		ts(r.StartedAt),
		ts(r.FinishedAt),
	})
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.trades, j.equity, j.episodes} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil {
			j.closeFiles()
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	var first error
	for _, fh := range j.files {
		if err := fh.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.files = nil
	return first
}

func writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, episode_id, step, side, position, entry_price, exit_price, realized_pnl, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.EpisodeID, t.Step, t.Side, t.Position,
		t.EntryPrice, t.ExitPrice, t.RealizedPnL, t.ClosedAt,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(episode_id, step, time, balance, position, total_pnl, price, reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EpisodeID, e.Step, e.Time, e.Balance, e.Position, e.TotalPnL, e.Price, e.Reward,
	)
	return err
}

func (j *SQLite) RecordEpisode(r EpisodeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO episodes
		(episode_id, policy, dataset, steps, total_reward, total_return, sharpe, max_drawdown,
		 win_rate, trades, wins, initial_balance, final_balance, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Policy, r.Dataset, r.Steps, r.TotalReward, r.TotalReturn, r.Sharpe, r.MaxDrawdown,
		r.WinRate, r.Trades, r.Wins, r.InitialBalance, r.FinalBalance, r.StartedAt, r.FinishedAt,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by ID matches nothing.
var ErrNotFound = errors.New("not found")

const tradeColumns = `trade_id, episode_id, step, side, position, entry_price, exit_price, realized_pnl, closed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.EpisodeID,
		&rec.Step,
		&rec.Side,
		&rec.Position,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.RealizedPnL,
		&rec.ClosedAt,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesByEpisode returns the trades of one episode in step order.
func (j *SQLite) ListTradesByEpisode(episodeID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE episode_id = ?
		ORDER BY step ASC, trade_id ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByEpisode returns the per-step snapshots of one episode.
func (j *SQLite) ListEquityByEpisode(episodeID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT episode_id, step, time, balance, position, total_pnl, price, reward
		FROM equity
		WHERE episode_id = ?
		ORDER BY step ASC`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(
			&e.EpisodeID,
			&e.Step,
			&e.Time,
			&e.Balance,
			&e.Position,
			&e.TotalPnL,
			&e.Price,
			&e.Reward,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const episodeColumns = `episode_id, policy, dataset, steps, total_reward, total_return, sharpe, max_drawdown,
	win_rate, trades, wins, initial_balance, final_balance, started_at, finished_at`

func scanEpisode(s scanner) (EpisodeRecord, error) {
	var r EpisodeRecord
	err := s.Scan(
		&r.ID,
		&r.Policy,
		&r.Dataset,
		&r.Steps,
		&r.TotalReward,
		&r.TotalReturn,
		&r.Sharpe,
		&r.MaxDrawdown,
		&r.WinRate,
		&r.Trades,
		&r.Wins,
		&r.InitialBalance,
		&r.FinalBalance,
		&r.StartedAt,
		&r.FinishedAt,
	)
	return r, err
}

// GetEpisode returns a single episode summary by ID.
func (j *SQLite) GetEpisode(id string) (EpisodeRecord, error) {
	row := j.db.QueryRow(`SELECT `+episodeColumns+` FROM episodes WHERE episode_id = ?`, id)

	r, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EpisodeRecord{}, fmt.Errorf("episode %q: %w", id, ErrNotFound)
		}
		return EpisodeRecord{}, err
	}
	return r, nil
}

// ListEpisodes returns up to limit episodes, newest first. A limit <= 0
// returns all of them.
func (j *SQLite) ListEpisodes(limit int) ([]EpisodeRecord, error) {
	q := `SELECT ` + episodeColumns + ` FROM episodes ORDER BY started_at DESC, episode_id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		r, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// journal/journal.go
package journal

import "time"

// TradeRecord is one closed position of an episode.
type TradeRecord struct {
	EpisodeID   string
	TradeID     string
	Step        int
	Side        string // long or short
	Position    float64
	EntryPrice  float64
	ExitPrice   float64
	RealizedPnL float64
	ClosedAt    time.Time
}

// EquitySnapshot is the account state after one step.
type EquitySnapshot struct {
	EpisodeID string
	Step      int
	Time      time.Time
	Balance   float64
	Position  float64
	TotalPnL  float64
	Price     float64
	Reward    float64
}

// EpisodeRecord summarizes one finished episode.
type EpisodeRecord struct {
	ID             string
	Policy         string
	Dataset        string
	Steps          int
	TotalReward    float64
	TotalReturn    float64
	Sharpe         float64
	MaxDrawdown    float64
	WinRate        float64
	Trades         int
	Wins           int
	InitialBalance float64
	FinalBalance   float64
	StartedAt      time.Time
	FinishedAt     time.Time
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	RecordEpisode(EpisodeRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) RecordEpisode(EpisodeRecord) error { return nil }
func (Nop) Close() error { return nil }

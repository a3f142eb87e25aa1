package sim

// Account is the mutable account state of one episode.
//
// Position is signed notional exposure as a fraction of capital: positive
// is long, negative is short, zero is flat. EntryPrice is zero whenever
// Position is zero.
type Account struct {
	Balance          float64 `json:"balance"`
	Position         float64 `json:"position"`
	EntryPrice       float64 `json:"entry_price"`
	TotalRealizedPnL float64 `json:"total_realized_pnl"`
	TradeCount       int     `json:"trade_count"`
}

// TradeRecord is appended exactly once per full position closure.
type TradeRecord struct {
	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	Position    float64 `json:"position"` // signed size that was closed
	RealizedPnL float64 `json:"realized_pnl"`
	Step        int     `json:"step"`
}

// Side returns "long" or "short" for the closed position.
func (t TradeRecord) Side() string {
	if t.Position < 0 {
		return "short"
	}
	return "long"
}

// Win reports whether the trade closed with a positive PnL.
func (t TradeRecord) Win() bool {
	return t.RealizedPnL > 0
}

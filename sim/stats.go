package sim

import "math"

const (
	// SharpeEpsilon keeps the Sharpe ratio finite when the PnL series is
	// flat.
	SharpeEpsilon = 1e-8
	// TradingPeriodsPerYear annualizes the per-step Sharpe ratio.
	TradingPeriodsPerYear = 252
)

// Statistics are the post-hoc performance numbers of one episode.
//
// MaxDrawdown is min(pnl history) - initial balance, which is not a true
// peak-to-trough drawdown.
type Statistics struct {
	TotalReturn    float64 `json:"total_return" yaml:"total_return"`
	SharpeRatio    float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	MaxDrawdown    float64 `json:"max_drawdown" yaml:"max_drawdown"`
	WinRate        float64 `json:"win_rate" yaml:"win_rate"`
	TotalTrades    int     `json:"total_trades" yaml:"total_trades"`
	WinningTrades  int     `json:"winning_trades" yaml:"winning_trades"`
	FinalBalance   float64 `json:"final_balance" yaml:"final_balance"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

// ComputeStatistics aggregates a PnL history and trade log. ok is false
// when the history has fewer than two points (no returns to measure).
func ComputeStatistics(pnlHistory []float64, trades []TradeRecord, initialBalance, finalBalance float64) (Statistics, bool) {
	if len(pnlHistory) < 2 {
		return Statistics{}, false
	}

	returns := make([]float64, len(pnlHistory)-1)
	for i := 1; i < len(pnlHistory); i++ {
		returns[i-1] = pnlHistory[i] - pnlHistory[i-1]
	}
	mean, std := meanStd(returns)

	minPnL := pnlHistory[0]
	for _, v := range pnlHistory[1:] {
		if v < minPnL {
			minPnL = v
		}
	}

	wins := 0
	for _, t := range trades {
		if t.Win() {
			wins++
		}
	}
	var winRate float64
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades))
	}

	return Statistics{
		TotalReturn:    (finalBalance - initialBalance) / initialBalance,
		SharpeRatio:    mean / (std + SharpeEpsilon) * math.Sqrt(TradingPeriodsPerYear),
		MaxDrawdown:    minPnL - initialBalance,
		WinRate:        winRate,
		TotalTrades:    len(trades),
		WinningTrades:  wins,
		FinalBalance:   finalBalance,
		InitialBalance: initialBalance,
	}, true
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var v float64
	for _, x := range xs {
		d := x - mean
		v += d * d
	}
	return mean, math.Sqrt(v / float64(len(xs)))
}

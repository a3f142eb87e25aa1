package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatisticsInsufficientHistory(t *testing.T) {
	t.Parallel()

	_, ok := ComputeStatistics(nil, nil, 10000, 10000)
	assert.False(t, ok)

	_, ok = ComputeStatistics([]float64{0}, nil, 10000, 10000)
	assert.False(t, ok)
}

func TestComputeStatistics(t *testing.T) {
	t.Parallel()

	hist := []float64{0, 1, 1, -2, 0}
	trades := []TradeRecord{
		{RealizedPnL: 1},
		{RealizedPnL: -3},
		{RealizedPnL: 2},
		{RealizedPnL: 0},
	}

	s, ok := ComputeStatistics(hist, trades, 100, 110)
	require.True(t, ok)

	// returns: 1, 0, -3, 2 -> mean 0, so Sharpe is 0
	assert.InDelta(t, 0.0, s.SharpeRatio, 1e-12)
	assert.InDelta(t, 0.1, s.TotalReturn, 1e-12)
	assert.Equal(t, -102.0, s.MaxDrawdown)
	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 2, s.WinningTrades)
	assert.Equal(t, 0.5, s.WinRate)
	assert.Equal(t, 110.0, s.FinalBalance)
	assert.Equal(t, 100.0, s.InitialBalance)
}

func TestComputeStatisticsSharpe(t *testing.T) {
	t.Parallel()

	// returns: 1, 3 -> mean 2, population std 1
	s, ok := ComputeStatistics([]float64{0, 1, 4}, nil, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 2/(1+SharpeEpsilon)*math.Sqrt(252), s.SharpeRatio, 1e-9)
}

func TestComputeStatisticsFlatHistory(t *testing.T) {
	t.Parallel()

	s, ok := ComputeStatistics([]float64{0, 0, 0}, nil, 100, 100)
	require.True(t, ok)
	assert.Equal(t, 0.0, s.SharpeRatio)
	assert.False(t, math.IsNaN(s.SharpeRatio))
	assert.Equal(t, 0.0, s.WinRate)
}

package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/tradegym/backtest"
	"github.com/rustyeddy/tradegym/journal"
	"github.com/rustyeddy/tradegym/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPrintStatistics(t *testing.T) {
	results := []backtest.EpisodeResult{
		{
			Steps:       10,
			TotalReward: 0.0123,
			HasStats:    true,
			Stats: sim.Statistics{
				TotalReturn:  0.015,
				SharpeRatio:  1.25,
				MaxDrawdown:  -10000,
				WinRate:      0.5,
				TotalTrades:  4,
				FinalBalance: 10150,
			},
		},
		{Steps: 1, TotalReward: -0.0001},
	}

	var buf bytes.Buffer
	PrintStatistics(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "EPISODE STATISTICS")
	assert.Contains(t, out, "1.50%")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "10150.00")
	assert.Contains(t, out, "-0.0001")
	assert.Contains(t, out, "2 episodes")
}

func TestPrintEpisodes(t *testing.T) {
	var buf bytes.Buffer
	PrintEpisodes(&buf, []journal.EpisodeRecord{{
		ID:        "01HZZ",
		Policy:    "threshold",
		Dataset:   "btc.csv",
		Steps:     42,
		WinRate:   0.25,
		StartedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	out := buf.String()

	assert.Contains(t, out, "01HZZ")
	assert.Contains(t, out, "threshold")
	assert.Contains(t, out, "2024-01-01T00:00:00Z")
	assert.Contains(t, out, "25.00%")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.xlsx")
	closed := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	ep := journal.EpisodeRecord{ID: "E1", Policy: "random", Steps: 3, Trades: 1, FinalBalance: 10000.3}
	trades := []journal.TradeRecord{
		{EpisodeID: "E1", TradeID: "T1", Step: 3, Side: "long", Position: 0.1, EntryPrice: 99, ExitPrice: 102, RealizedPnL: 0.3, ClosedAt: closed},
	}
	equity := []journal.EquitySnapshot{
		{EpisodeID: "E1", Step: 3, Price: 99, Balance: 10000},
		{EpisodeID: "E1", Step: 4, Price: 102, Balance: 10000.3},
	}

	require.NoError(t, WriteXLSX(path, ep, trades, equity))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.Equal(t, []string{"Summary", "Trades", "Equity"}, fx.GetSheetList())

	summary, err := fx.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Episode", "E1"}, summary[0])
	assert.Equal(t, []string{"Policy", "random"}, summary[1])

	tradeRows, err := fx.GetRows("Trades")
	require.NoError(t, err)
	require.Len(t, tradeRows, 2)
	assert.Equal(t, "Trade ID", tradeRows[0][0])
	assert.Equal(t, "T1", tradeRows[1][0])
	assert.Equal(t, "long", tradeRows[1][2])
	assert.Equal(t, "2024-01-01 03:00:00", tradeRows[1][7])

	equityRows, err := fx.GetRows("Equity")
	require.NoError(t, err)
	assert.Len(t, equityRows, 3)
	assert.Equal(t, "4", equityRows[2][0])
}

func TestWriteXLSXBadPath(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "x.xlsx"), journal.EpisodeRecord{}, nil, nil)
	assert.Error(t, err)
}

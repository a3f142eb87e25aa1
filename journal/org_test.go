package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	out := FormatTradeOrg(TradeRecord{
		EpisodeID:   "01HZZEPISODE",
		TradeID:     "01HZZTRADE000",
		Step:        42,
		Side:        "long",
		Position:    0.1,
		EntryPrice:  100,
		ExitPrice:   101,
		RealizedPnL: 0.1,
		ClosedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})

	assert.True(t, strings.HasPrefix(out, "** Trade: long step 42 (01HZZTRA)\n"))
	assert.Contains(t, out, ":TRADE_ID: 01HZZTRADE000\n")
	assert.Contains(t, out, ":EPISODE_ID: 01HZZEPISODE\n")
	assert.Contains(t, out, ":CLOSED_AT: 2024-01-01T12:00:00Z\n")
	assert.Contains(t, out, ":REALIZED_PNL: 0.10\n")
	assert.Contains(t, out, ":END:\n")
}

func TestFormatTradeOrgZeroTime(t *testing.T) {
	t.Parallel()

	out := FormatTradeOrg(TradeRecord{TradeID: "T1", Side: "short"})
	assert.NotContains(t, out, ":CLOSED_AT:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatTradesOrg(nil))

	out := FormatTradesOrg([]TradeRecord{{TradeID: "A"}, {TradeID: "B"}})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "- \n\n\n** Trade:")
}

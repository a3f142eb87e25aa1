package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLedger() *ledger {
	return newLedger(10000, 0.1, zap.NewNop())
}

func TestLedgerBuyFromFlat(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Buy, 100, 5)

	assert.InDelta(t, 0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 100.0, l.acct.EntryPrice)
	assert.Equal(t, 1, l.acct.TradeCount)
	assert.Equal(t, 10000.0, l.acct.Balance)
	assert.Empty(t, l.trades)
}

func TestLedgerHoldIsNoop(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Buy, 100, 1)
	before := l.acct

	l.apply(Hold, 150, 2)
	assert.Equal(t, before, l.acct)
	assert.Empty(t, l.trades)
}

func TestLedgerBuyAtCapIsNoop(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Buy, 100, 1)
	l.apply(Buy, 120, 2)

	assert.InDelta(t, 0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 100.0, l.acct.EntryPrice)
	assert.Equal(t, 1, l.acct.TradeCount)
}

func TestLedgerSellAtCapIsNoop(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Sell, 100, 1)
	l.apply(Sell, 80, 2)

	assert.InDelta(t, -0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 100.0, l.acct.EntryPrice)
	assert.Equal(t, 1, l.acct.TradeCount)
}

func TestLedgerFlipLongToShort(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Buy, 100, 1)
	l.apply(Sell, 110, 2)

	wantPnL := (110.0 - 100.0) / 100.0 * 0.1
	require.Len(t, l.trades, 1)
	tr := l.trades[0]
	assert.Equal(t, 100.0, tr.EntryPrice)
	assert.Equal(t, 110.0, tr.ExitPrice)
	assert.InDelta(t, 0.1, tr.Position, 1e-12)
	assert.InDelta(t, wantPnL, tr.RealizedPnL, 1e-12)
	assert.Equal(t, 2, tr.Step)
	assert.Equal(t, "long", tr.Side())

	assert.InDelta(t, -0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 110.0, l.acct.EntryPrice)
	assert.Equal(t, 2, l.acct.TradeCount)
	assert.InDelta(t, 10000+wantPnL, l.acct.Balance, 1e-9)
	assert.InDelta(t, wantPnL, l.acct.TotalRealizedPnL, 1e-12)
}

func TestLedgerFlipShortToLong(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Sell, 100, 1)
	l.apply(Buy, 90, 2)

	wantPnL := (100.0 - 90.0) / 100.0 * 0.1
	require.Len(t, l.trades, 1)
	assert.Equal(t, "short", l.trades[0].Side())
	assert.True(t, l.trades[0].Win())
	assert.InDelta(t, wantPnL, l.trades[0].RealizedPnL, 1e-12)
	assert.InDelta(t, 0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 90.0, l.acct.EntryPrice)
	assert.Equal(t, 2, l.acct.TradeCount)
}

// Extending a partial long resets the entry price to the latest fill and
// discards the earlier cost basis.
func TestLedgerAdditiveBuyResetsEntryPrice(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.acct.Position = 0.05
	l.acct.EntryPrice = 100

	l.apply(Buy, 110, 3)

	assert.InDelta(t, 0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 110.0, l.acct.EntryPrice)
	assert.Equal(t, 1, l.acct.TradeCount)
	assert.Empty(t, l.trades)
}

func TestLedgerAdditiveSellExtendsShort(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.acct.Position = -0.05
	l.acct.EntryPrice = 100

	l.apply(Sell, 95, 3)

	assert.InDelta(t, -0.1, l.acct.Position, 1e-12)
	assert.Equal(t, 95.0, l.acct.EntryPrice)
	assert.Empty(t, l.trades)
}

func TestLedgerCloseWhenFlatIsNoop(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.closePosition(100, 1)
	assert.Empty(t, l.trades)
	assert.Equal(t, 10000.0, l.acct.Balance)
}

func TestLedgerReset(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	l.apply(Buy, 100, 1)
	l.apply(Sell, 90, 2)
	require.Len(t, l.trades, 1)

	l.reset(5000)
	assert.Equal(t, Account{Balance: 5000}, l.acct)
	assert.Empty(t, l.trades)
}

func TestRealizedPnL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  float64
		entry float64
		exit  float64
		want  float64
	}{
		{"long_profit", 0.1, 100, 110, 0.01},
		{"long_loss", 0.1, 100, 90, -0.01},
		{"short_profit", -0.1, 100, 90, 0.01},
		{"short_loss", -0.1, 100, 110, -0.01},
		{"flat", 0, 100, 110, 0},
		{"zero_entry", 0.1, 0, 110, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RealizedPnL(tt.size, tt.entry, tt.exit), 1e-12)
		})
	}
}

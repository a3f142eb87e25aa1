package sim

import (
	"math"

	"go.uber.org/zap"
)

// ledger owns the account and trade history of one episode. Fills are
// immediate at the given price.
type ledger struct {
	acct   Account
	maxPos float64
	trades []TradeRecord
	log    *zap.Logger
}

func newLedger(initialBalance, maxPos float64, log *zap.Logger) *ledger {
	l := &ledger{maxPos: maxPos, log: log}
	l.reset(initialBalance)
	return l
}

func (l *ledger) reset(initialBalance float64) {
	l.acct = Account{Balance: initialBalance}
	l.trades = l.trades[:0]
}

// apply executes a sanitized action at price. step is recorded on any
// trade record produced by a closure.
func (l *ledger) apply(a Action, price float64, step int) {
	switch a {
	case Buy:
		if l.acct.Position >= l.maxPos {
			return
		}
		if l.acct.Position < 0 {
			l.closePosition(price, step)
		}
		size := math.Min(l.maxPos, l.maxPos-l.acct.Position)
		l.acct.Position += size
		// The entry price always resets to the latest fill, even when
		// extending an existing long.
		l.acct.EntryPrice = price
		l.acct.TradeCount++
		l.log.Debug("BUY", zap.Float64("size", size), zap.Float64("price", price), zap.Int("step", step))

	case Sell:
		if l.acct.Position <= -l.maxPos {
			return
		}
		if l.acct.Position > 0 {
			l.closePosition(price, step)
		}
		size := math.Min(l.maxPos, l.maxPos+l.acct.Position)
		l.acct.Position -= size
		l.acct.EntryPrice = price
		l.acct.TradeCount++
		l.log.Debug("SELL", zap.Float64("size", size), zap.Float64("price", price), zap.Int("step", step))
	}
}

// closePosition realizes PnL on the open position at price. It is a no-op
// when flat.
func (l *ledger) closePosition(price float64, step int) {
	if l.acct.Position == 0 {
		return
	}

	pnl := RealizedPnL(l.acct.Position, l.acct.EntryPrice, price)
	l.acct.Balance += pnl
	l.acct.TotalRealizedPnL += pnl

	l.trades = append(l.trades, TradeRecord{
		EntryPrice:  l.acct.EntryPrice,
		ExitPrice:   price,
		Position:    l.acct.Position,
		RealizedPnL: pnl,
		Step:        step,
	})

	l.log.Debug("position closed",
		zap.Float64("pnl", pnl),
		zap.Float64("balance", l.acct.Balance),
		zap.Int("step", step))

	l.acct.Position = 0
	l.acct.EntryPrice = 0
}

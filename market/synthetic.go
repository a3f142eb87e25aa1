package market

import (
	"math"
	"math/rand"
	"time"
)

// SyntheticOptions controls the random walk produced by Synthetic.
type SyntheticOptions struct {
	Candles    int
	Seed       int64
	BasePrice  float64
	Volatility float64 // per-candle stddev of log returns
	Start      time.Time
	Interval   time.Duration
}

// Synthetic generates a reproducible hourly OHLCV series: closes follow a
// geometric random walk, open/high/low are jittered around it and volume is
// uniform in [100, 1000).
func Synthetic(opts SyntheticOptions) (*Series, error) {
	if opts.Candles <= 0 {
		return nil, ErrEmptySeries
	}
	if opts.BasePrice <= 0 {
		opts.BasePrice = 50000
	}
	if opts.Volatility <= 0 {
		opts.Volatility = 0.02
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	candles := make([]Candle, opts.Candles)
	logPrice := math.Log(opts.BasePrice)
	for i := range candles {
		logPrice += rng.NormFloat64() * opts.Volatility
		price := math.Exp(logPrice)

		high := price * (1 + math.Abs(rng.NormFloat64()*0.01))
		low := price * (1 - math.Abs(rng.NormFloat64()*0.01))
		open := price * (1 + rng.NormFloat64()*0.005)
		cl := price * (1 + rng.NormFloat64()*0.005)

		candles[i] = Candle{
			Time:   opts.Start.Add(time.Duration(i) * opts.Interval),
			Open:   open,
			High:   math.Max(high, math.Max(open, cl)),
			Low:    math.Min(low, math.Min(open, cl)),
			Close:  cl,
			Volume: 100 + rng.Float64()*900,
		}
	}
	return NewSeries("synthetic", candles)
}

package market

import "time"

// Candle represents OHLCV (Open, High, Low, Close, Volume) data for one
// fixed time interval.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Valid reports whether close and volume are strictly positive, which is
// what the observation builder needs to take log returns and volume ratios.
func (c Candle) Valid() bool {
	return c.Close > 0 && c.Volume > 0
}

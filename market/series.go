package market

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptySeries is returned when a series has no candles.
	ErrEmptySeries = errors.New("market: empty series")
	// ErrOutOfOrder is returned when candle times are not strictly increasing.
	ErrOutOfOrder = errors.New("market: candles out of chronological order")
)

// Series is an ordered, immutable sequence of candles. It is owned by the
// caller and shared read-only by every environment built on top of it.
type Series struct {
	Source  string
	candles []Candle
}

// NewSeries copies candles into a Series. Either every candle has a Time
// or none does (synthetic fixtures); when times are set they must be
// strictly increasing.
func NewSeries(source string, candles []Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, ErrEmptySeries
	}

	timed := !candles[0].Time.IsZero()
	var prev time.Time
	for i, c := range candles {
		if c.Time.IsZero() == timed {
			return nil, fmt.Errorf("%w: index %d mixes timestamped and untimed candles", ErrOutOfOrder, i)
		}
		if !timed {
			continue
		}
		if i > 0 && !c.Time.After(prev) {
			return nil, fmt.Errorf("%w: index %d at %s", ErrOutOfOrder, i, c.Time.Format(time.RFC3339))
		}
		prev = c.Time
	}

	cs := make([]Candle, len(candles))
	copy(cs, candles)
	return &Series{Source: source, candles: cs}, nil
}

// FromCloses builds a series where every OHLC field equals the close and
// volume is constant. Handy for fixtures and quick experiments.
func FromCloses(closes []float64, volume float64) (*Series, error) {
	candles := make([]Candle, len(closes))
	for i, c := range closes {
		candles[i] = Candle{Open: c, High: c, Low: c, Close: c, Volume: volume}
	}
	return NewSeries("closes", candles)
}

// Len returns the number of candles.
func (s *Series) Len() int { return len(s.candles) }

// At returns the candle at index i.
func (s *Series) At(i int) Candle { return s.candles[i] }

// Close returns the close price at index i.
func (s *Series) Close(i int) float64 { return s.candles[i].Close }

// Window returns the candles in [start, end). The returned slice must not be
// modified.
func (s *Series) Window(start, end int) []Candle {
	return s.candles[start:end:end]
}

// Start returns the time of the first candle.
func (s *Series) Start() time.Time { return s.candles[0].Time }

// End returns the time of the last candle.
func (s *Series) End() time.Time { return s.candles[len(s.candles)-1].Time }

// Validate checks that every candle has a strictly positive close and
// volume. It returns the index of the first bad candle in the error.
func (s *Series) Validate() error {
	for i, c := range s.candles {
		if !c.Valid() {
			return fmt.Errorf("market: candle %d has non-positive close/volume (close=%g volume=%g)", i, c.Close, c.Volume)
		}
	}
	return nil
}

// Split cuts the series into a training part and a trailing validation part
// holding frac of the candles.
func (s *Series) Split(frac float64) (train, validation *Series, err error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, fmt.Errorf("market: split fraction must be in (0,1), got %g", frac)
	}

	n := len(s.candles)
	cut := n - int(float64(n)*frac)
	if cut <= 0 || cut >= n {
		return nil, nil, fmt.Errorf("market: series of %d candles too short to split at %g", n, frac)
	}

	train = &Series{Source: s.Source + " train", candles: s.candles[:cut:cut]}
	validation = &Series{Source: s.Source + " validation", candles: s.candles[cut:]}
	return train, validation, nil
}

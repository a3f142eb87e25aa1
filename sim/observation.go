package sim

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradegym/market"
)

// buildObservation encodes the window of candles ending just before cursor
// plus the account state into a vector of length 5*len(window)+2.
//
// The oldest candle is emitted raw to anchor the scale. Every later candle
// emits the close-to-close log return for all four price channels and the
// relative volume change.
func buildObservation(window []market.Candle, position, balanceRatio float64) ([]float64, error) {
	obs := make([]float64, 0, 5*len(window)+2)

	for i, c := range window {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: non-positive close/volume in window at offset %d (close=%g volume=%g)",
				ErrInvalidData, i, c.Close, c.Volume)
		}
		if i == 0 {
			obs = append(obs, c.Open, c.High, c.Low, c.Close, c.Volume)
			continue
		}

		prev := window[i-1]
		r := math.Log(c.Close / prev.Close)
		dv := (c.Volume - prev.Volume) / prev.Volume
		obs = append(obs, r, r, r, r, dv)
	}

	obs = append(obs, position, balanceRatio)
	return obs, nil
}

package indicators

import "fmt"

// EMA computes an Exponential Moving Average over closes. It is seeded with
// the first value and reports Ready once period values have been seen.
type EMA struct {
	n     int
	alpha float64

	seen  int
	value float64
	ready bool

	name string
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("EMA period must be > 0")
	}
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
		name:  fmt.Sprintf("EMA(%d)", period),
	}
}

func (e *EMA) Name() string     { return e.name }
func (e *EMA) Warmup() int      { return e.n }
func (e *EMA) Ready() bool      { return e.ready }
func (e *EMA) Float64() float64 { return e.value }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
	e.ready = false
}

func (e *EMA) Update(x float64) {
	e.seen++
	if e.seen == 1 {
		// Seed with the first close.
		e.value = x
	} else {
		e.value = e.alpha*x + (1.0-e.alpha)*e.value
	}

	if e.seen >= e.n {
		e.ready = true
	}
}

// EMASeries returns the EMA after each value of xs.
func EMASeries(xs []float64, period int) []float64 {
	e := NewEMA(period)
	out := make([]float64, len(xs))
	for i, x := range xs {
		e.Update(x)
		out[i] = e.Float64()
	}
	return out
}

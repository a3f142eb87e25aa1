package sim

import "fmt"

// DefaultActivityPenalty is subtracted from the reward of every non-HOLD
// step to discourage churn.
const DefaultActivityPenalty = 1e-4

// Params are the construction parameters of an Engine.
type Params struct {
	WindowSize      int     `json:"window_size" yaml:"window_size"`
	CommissionRate  float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippageRate    float64 `json:"slippage_rate" yaml:"slippage_rate"`
	InitialBalance  float64 `json:"initial_balance" yaml:"initial_balance"`
	MaxPositionSize float64 `json:"max_position_size" yaml:"max_position_size"`
	ActivityPenalty float64 `json:"activity_penalty" yaml:"activity_penalty"`
}

// DefaultParams returns the parameters used for hourly crypto data:
// 64 candle window, 0.04% commission, 0.01% slippage, 10% max exposure.
func DefaultParams() Params {
	return Params{
		WindowSize:      64,
		CommissionRate:  0.0004,
		SlippageRate:    0.0001,
		InitialBalance:  10000,
		MaxPositionSize: 0.1,
		ActivityPenalty: DefaultActivityPenalty,
	}
}

// Validate fails fast on any out-of-range parameter. Values are never
// clamped.
func (p Params) Validate() error {
	switch {
	case p.WindowSize <= 0:
		return fmt.Errorf("%w: window_size must be positive, got %d", ErrInvalidConfig, p.WindowSize)
	case p.CommissionRate < 0:
		return fmt.Errorf("%w: commission_rate must be >= 0, got %g", ErrInvalidConfig, p.CommissionRate)
	case p.SlippageRate < 0:
		return fmt.Errorf("%w: slippage_rate must be >= 0, got %g", ErrInvalidConfig, p.SlippageRate)
	case p.InitialBalance <= 0:
		return fmt.Errorf("%w: initial_balance must be positive, got %g", ErrInvalidConfig, p.InitialBalance)
	case p.MaxPositionSize <= 0 || p.MaxPositionSize > 1:
		return fmt.Errorf("%w: max_position_size must be in (0,1], got %g", ErrInvalidConfig, p.MaxPositionSize)
	case p.ActivityPenalty < 0:
		return fmt.Errorf("%w: activity_penalty must be >= 0, got %g", ErrInvalidConfig, p.ActivityPenalty)
	}
	return nil
}

// ObservationSize is the length of every observation vector: five features
// per window candle plus position and normalized balance.
func (p Params) ObservationSize() int {
	return 5*p.WindowSize + 2
}

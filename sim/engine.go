package sim

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradegym/market"
	"go.uber.org/zap"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Uninitialized State = iota
	Ready
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Info is the auxiliary data returned with every step. CurrentPrice is the
// close the step's action was filled at.
type Info struct {
	Balance       float64 `json:"balance"`
	Position      float64 `json:"position"`
	TotalPnL      float64 `json:"total_pnl"`
	TradesCount   int     `json:"trades_count"`
	CurrentPrice  float64 `json:"current_price,omitempty"`
	Step          int     `json:"step"`
	Action        Action  `json:"action"`
	ActionCoerced bool    `json:"action_coerced,omitempty"`
}

// ResetInfo is the account subset returned by Reset, before any action has
// been taken.
type ResetInfo struct {
	Balance     float64 `json:"balance"`
	Position    float64 `json:"position"`
	TotalPnL    float64 `json:"total_pnl"`
	TradesCount int     `json:"trades_count"`
	Step        int     `json:"step"`
}

// Info widens r to the step info shape consumed by policies.
func (r ResetInfo) Info() Info {
	return Info{
		Balance:     r.Balance,
		Position:    r.Position,
		TotalPnL:    r.TotalPnL,
		TradesCount: r.TradesCount,
		Step:        r.Step,
	}
}

// StepResult is the (observation, reward, done, truncated, info) tuple.
// Truncated is always false: episodes only end by running out of data.
type StepResult struct {
	Observation []float64 `json:"observation"`
	Reward      float64   `json:"reward"`
	Done        bool      `json:"done"`
	Truncated   bool      `json:"truncated"`
	Info        Info      `json:"info"`
}

// Engine simulates single-asset spot trading over a candle series, one
// discrete action per step.
//
// An Engine is not safe for concurrent use; callers must serialize Reset
// and Step. Independent engines share nothing but the read-only series.
type Engine struct {
	series *market.Series
	params Params
	log    *zap.Logger

	state    State
	cursor   int
	maxSteps int
	ledger   *ledger
	pnlHist  []float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for fills and closures (debug level).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine validates params and returns an engine in the Uninitialized
// state. The series must hold at least WindowSize+1 candles so the first
// step has both a full lookback window and a fill price.
func NewEngine(series *market.Series, params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if series == nil {
		return nil, fmt.Errorf("%w: series is required", ErrInvalidData)
	}
	if series.Len() < params.WindowSize+1 {
		return nil, fmt.Errorf("%w: series has %d candles, need at least window_size+1 = %d",
			ErrInvalidData, series.Len(), params.WindowSize+1)
	}

	e := &Engine{
		series:   series,
		params:   params,
		log:      zap.NewNop(),
		maxSteps: series.Len() - params.WindowSize - 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ledger = newLedger(params.InitialBalance, params.MaxPositionSize, e.log)
	return e, nil
}

// Reset starts a new episode: the account returns to the initial balance,
// histories are cleared and the cursor moves to WindowSize.
func (e *Engine) Reset() ([]float64, ResetInfo, error) {
	e.ledger.reset(e.params.InitialBalance)
	e.pnlHist = e.pnlHist[:0]
	e.cursor = e.params.WindowSize

	obs, err := e.observe()
	if err != nil {
		e.state = Uninitialized
		return nil, ResetInfo{}, err
	}
	e.state = Ready

	acct := e.ledger.acct
	return obs, ResetInfo{
		Balance:     acct.Balance,
		Position:    acct.Position,
		TotalPnL:    acct.TotalRealizedPnL,
		TradesCount: acct.TradeCount,
		Step:        e.cursor,
	}, nil
}

// Step applies an action and advances the cursor by one candle.
//
// Order matters: the action is filled at the current close, the reward is
// computed on the resulting position against the next close, then the
// cursor advances and the observation is rebuilt. Out-of-range actions are
// coerced to Hold and reported in Info.ActionCoerced.
func (e *Engine) Step(a Action) (StepResult, error) {
	switch e.state {
	case Uninitialized:
		return StepResult{}, ErrNotReset
	case Done:
		return StepResult{}, ErrEpisodeDone
	}

	action, coerced := SanitizeAction(a)
	if coerced {
		e.log.Debug("invalid action coerced to HOLD", zap.Int("action", int(a)))
	}

	price := e.series.Close(e.cursor)
	if price <= 0 {
		return StepResult{}, fmt.Errorf("%w: non-positive fill price %g at step %d", ErrInvalidData, price, e.cursor)
	}
	e.ledger.apply(action, price, e.cursor)

	reward := e.reward(action)

	e.cursor++
	e.state = Running
	done := e.cursor >= e.maxSteps
	if done {
		e.state = Done
	}

	acct := e.ledger.acct
	e.pnlHist = append(e.pnlHist, acct.TotalRealizedPnL)

	obs, err := e.observe()
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		Observation: obs,
		Reward:      reward,
		Done:        done,
		Truncated:   false,
		Info: Info{
			Balance:       acct.Balance,
			Position:      acct.Position,
			TotalPnL:      acct.TotalRealizedPnL,
			TradesCount:   acct.TradeCount,
			CurrentPrice:  price,
			Step:          e.cursor,
			Action:        action,
			ActionCoerced: coerced,
		},
	}, nil
}

// reward is zero when there is no next candle to evaluate against.
func (e *Engine) reward(a Action) float64 {
	if e.cursor+1 >= e.series.Len() {
		return 0
	}
	return Reward(
		e.ledger.acct.Position,
		e.series.Close(e.cursor),
		e.series.Close(e.cursor+1),
		a,
		e.params,
	)
}

func (e *Engine) observe() ([]float64, error) {
	w := e.params.WindowSize
	window := e.series.Window(e.cursor-w, e.cursor)
	obs, err := buildObservation(window, e.ledger.acct.Position, e.ledger.acct.Balance/e.params.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", e.cursor, err)
	}
	return obs, nil
}

// Statistics summarizes the current episode. ok is false until at least two
// steps have been taken.
func (e *Engine) Statistics() (Statistics, bool) {
	return ComputeStatistics(e.pnlHist, e.ledger.trades, e.params.InitialBalance, e.ledger.acct.Balance)
}

// Account returns a copy of the account state.
func (e *Engine) Account() Account { return e.ledger.acct }

// Trades returns a copy of the trade history of the current episode.
func (e *Engine) Trades() []TradeRecord {
	out := make([]TradeRecord, len(e.ledger.trades))
	copy(out, e.ledger.trades)
	return out
}

// TradesSince returns a copy of the trades closed after the first n.
func (e *Engine) TradesSince(n int) []TradeRecord {
	if n < 0 {
		n = 0
	}
	if n >= len(e.ledger.trades) {
		return nil
	}
	out := make([]TradeRecord, len(e.ledger.trades)-n)
	copy(out, e.ledger.trades[n:])
	return out
}

// PnLHistory returns a copy of the per-step total realized PnL.
func (e *Engine) PnLHistory() []float64 {
	out := make([]float64, len(e.pnlHist))
	copy(out, e.pnlHist)
	return out
}

func (e *Engine) State() State { return e.state }
func (e *Engine) Cursor() int { return e.cursor }
func (e *Engine) MaxSteps() int { return e.maxSteps }
func (e *Engine) Params() Params { return e.params }
func (e *Engine) Series() *market.Series { return e.series }
func (e *Engine) ObservationSize() int { return e.params.ObservationSize() }

// Render returns a short human readable status of the episode.
func (e *Engine) Render() string {
	var price float64
	if e.cursor > 0 {
		price = e.series.Close(e.cursor - 1)
	}
	acct := e.ledger.acct

	var b strings.Builder
	fmt.Fprintf(&b, "Step:     %d\n", e.cursor)
	fmt.Fprintf(&b, "Price:    %.2f\n", price)
	fmt.Fprintf(&b, "Position: %.4f\n", acct.Position)
	fmt.Fprintf(&b, "Balance:  %.2f\n", acct.Balance)
	fmt.Fprintf(&b, "PnL:      %.4f\n", acct.TotalRealizedPnL)
	fmt.Fprintf(&b, "Trades:   %d\n", acct.TradeCount)
	b.WriteString(strings.Repeat("-", 50))
	b.WriteString("\n")
	return b.String()
}

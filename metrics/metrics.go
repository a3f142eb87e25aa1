package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/tradegym/sim"
)

// Collector holds the simulation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	steps          prometheus.Counter
	trades         *prometheus.CounterVec
	invalidActions prometheus.Counter
	episodeReward  prometheus.Histogram
	balance        prometheus.Gauge
	episodes       prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tradegym_steps_total",
			Help: "Total number of environment steps",
		}),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradegym_trades_total",
				Help: "Total number of closed positions",
			},
			[]string{"side"},
		),
		invalidActions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tradegym_invalid_actions_total",
			Help: "Actions outside the action space that were coerced to HOLD",
		}),
		episodeReward: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradegym_episode_reward",
			Help:    "Distribution of total reward per episode",
			Buckets: prometheus.LinearBuckets(-0.5, 0.1, 11),
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tradegym_balance",
			Help: "Account balance after the latest step",
		}),
		episodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tradegym_episodes_total",
			Help: "Total number of finished episodes",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			c.steps,
			c.trades,
			c.invalidActions,
			c.episodeReward,
			c.balance,
			c.episodes,
		)
	}
	return c
}

// ObserveStep records one step result.
func (c *Collector) ObserveStep(res sim.StepResult) {
	if c == nil {
		return
	}
	c.steps.Inc()
	c.balance.Set(res.Info.Balance)
	if res.Info.ActionCoerced {
		c.invalidActions.Inc()
	}
}

// ObserveTrade records one closed position.
func (c *Collector) ObserveTrade(t sim.TradeRecord) {
	if c == nil {
		return
	}
	c.trades.WithLabelValues(t.Side()).Inc()
}

// ObserveEpisode records a finished episode and its total reward.
func (c *Collector) ObserveEpisode(totalReward float64) {
	if c == nil {
		return
	}
	c.episodes.Inc()
	c.episodeReward.Observe(totalReward)
}

// Handler serves the metrics of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

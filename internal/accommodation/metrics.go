package accommodation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds generation-level prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	strategies *prometheus.CounterVec
	failures   *prometheus.CounterVec
	deviations prometheus.Counter
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the generation collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		strategies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accommodation_parse_strategy_total",
				Help: "Successful reply parses by the strategy that recovered the array.",
			},
			[]string{"strategy"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accommodation_generation_failures_total",
				Help: "Failed generations by error kind.",
			},
			[]string{"kind"},
		),
		deviations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accommodation_count_deviation_total",
			Help: "Generations whose accommodation count differed from the target.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "accommodation_generation_duration_seconds",
			Help:    "Wall time of a generation including the model call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
	}

	for _, c := range []prometheus.Collector{m.strategies, m.failures, m.deviations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeSuccess(strategy Strategy, degraded bool, seconds float64) {
	if m == nil {
		return
	}
	m.strategies.WithLabelValues(string(strategy)).Inc()
	if degraded {
		m.deviations.Inc()
	}
	m.duration.Observe(seconds)
}

func (m *Metrics) observeFailure(kind ErrorKind, seconds float64) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(kind)).Inc()
	m.duration.Observe(seconds)
}

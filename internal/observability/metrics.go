package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus metrics.
type Metrics struct {
	DecisionsTotal      *prometheus.CounterVec
	FallbackScoresTotal prometheus.Counter
	BreakerState        prometheus.Gauge
	OracleCallDuration  prometheus.Histogram
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_engine_decisions_total",
			Help: "Credit decisions reached, by terminal status",
		}, []string{"status"}),
		FallbackScoresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credit_engine_score_fallback_total",
			Help: "Times the fallback score was substituted for an unreachable oracle",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_score_breaker_state",
			Help: "Score oracle circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		OracleCallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_engine_oracle_call_seconds",
			Help:    "Latency of score oracle calls, including failed attempts",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveDecision counts a terminal decision by status.
func (m *Metrics) ObserveDecision(status string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(status).Inc()
}

// ObserveFallbackScore counts a served fallback score.
func (m *Metrics) ObserveFallbackScore() {
	if m == nil {
		return
	}
	m.FallbackScoresTotal.Inc()
}

// ObserveBreakerState records the breaker position after a gateway call.
func (m *Metrics) ObserveBreakerState(state float64) {
	if m == nil {
		return
	}
	m.BreakerState.Set(state)
}

// ObserveOracleCall records one oracle attempt's latency in seconds.
func (m *Metrics) ObserveOracleCall(seconds float64) {
	if m == nil {
		return
	}
	m.OracleCallDuration.Observe(seconds)
}

package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records limiter decisions. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordAllowed(source string)
	RecordDenied(source string)
}

// NoopMetrics discards all recordings. Useful in tests and for callers that
// do not run a metrics endpoint.
type NoopMetrics struct{}

func (NoopMetrics) RecordAllowed(string) {}
func (NoopMetrics) RecordDenied(string)  {}

var (
	limiterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_ratelimit_decisions_total",
			Help: "Rate limiter decisions per source and verdict",
		},
		[]string{"source", "verdict"},
	)
)

// PrometheusMetrics records limiter decisions as Prometheus counters.
type PrometheusMetrics struct{}

// NewPrometheusMetrics returns a recorder backed by the default registry.
func NewPrometheusMetrics() PrometheusMetrics { return PrometheusMetrics{} }

func (PrometheusMetrics) RecordAllowed(source string) {
	limiterDecisions.WithLabelValues(source, "allowed").Inc()
}

func (PrometheusMetrics) RecordDenied(source string) {
	limiterDecisions.WithLabelValues(source, "denied").Inc()
}

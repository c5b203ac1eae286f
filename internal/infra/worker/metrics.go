package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled pipeline runs.
type Metrics struct {
	// RunsTotal counts runs by outcome: success or failure.
	RunsTotal *prometheus.CounterVec

	// RunDuration measures one end-to-end run.
	RunDuration prometheus.Histogram

	// ItemsFetchedTotal accumulates content items pulled across runs.
	ItemsFetchedTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last published issue.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers and returns the pipeline run metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_pipeline_runs_total",
			Help: "Scheduled pipeline runs by outcome.",
		}, []string{"status"}),

		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_pipeline_run_duration_seconds",
			Help:    "Duration of one end-to-end pipeline run.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		ItemsFetchedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_pipeline_items_fetched_total",
			Help: "Content items fetched across all pipeline runs.",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_pipeline_last_success_timestamp",
			Help: "Unix timestamp of the last successfully published issue.",
		}),
	}
}

// RecordRun records one run outcome with its duration.
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// RecordItemsFetched adds the item count of one run.
func (m *Metrics) RecordItemsFetched(count int) {
	m.ItemsFetchedTotal.Add(float64(count))
}

// RecordSuccess stamps the last successful publish time.
func (m *Metrics) RecordSuccess(at time.Time) {
	m.LastSuccessTimestamp.Set(float64(at.Unix()))
}

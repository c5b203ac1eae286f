// Package metrics provides centralized Prometheus metrics for the
// newsletter pipeline: tool dispatch, source fetching, draft building, and
// publishing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool surface metrics.
var (
	// ToolInvocationsTotal counts tool calls by tool name and outcome.
	ToolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolDuration measures tool handler duration in seconds.
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tool_duration_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
)

// Source adapter metrics.
var (
	// SourceFetchTotal counts adapter fetches by source and outcome. The
	// status label carries the error kind on failure ("ok" on success).
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_total",
			Help: "Total number of source fetch attempts",
		},
		[]string{"source", "status"},
	)

	// SourceFetchDuration measures adapter fetch duration in seconds.
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Source fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// SourceItemsFetched counts normalized items per source.
	SourceItemsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_items_fetched_total",
			Help: "Total number of content items fetched per source",
		},
		[]string{"source"},
	)

	// AggregationDuration measures whole-bundle aggregation runs.
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Content aggregation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Pipeline metrics.
var (
	// DraftsBuiltTotal counts drafts produced by the builder.
	DraftsBuiltTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drafts_built_total",
			Help: "Total number of newsletter drafts built",
		},
	)

	// ValidationFindingsTotal counts validation findings by severity.
	ValidationFindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_findings_total",
			Help: "Total number of draft validation findings",
		},
		[]string{"severity"},
	)

	// PublishAttemptsTotal counts file-store uploads by outcome.
	PublishAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_attempts_total",
			Help: "Total number of publish attempts",
		},
		[]string{"status"},
	)

	// IssuesPublishedTotal counts successfully published issues.
	IssuesPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "issues_published_total",
			Help: "Total number of newsletter issues published",
		},
	)
)

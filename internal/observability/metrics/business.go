package metrics

import (
	"time"

	"newsletter-press/internal/domain/entity"
)

// RecordToolInvocation records one tool call with its outcome and duration.
// Status should be "ok" or the error kind returned to the host.
func RecordToolInvocation(tool, status string, duration time.Duration) {
	ToolInvocationsTotal.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordSourceFetch records one adapter fetch. On success the item count is
// added to the per-source item counter.
func RecordSourceFetch(tag entity.SourceTag, duration time.Duration, items int, err *entity.SourceError) {
	status := "ok"
	if err != nil {
		status = string(err.Kind)
	}
	SourceFetchTotal.WithLabelValues(string(tag), status).Inc()
	SourceFetchDuration.WithLabelValues(string(tag)).Observe(duration.Seconds())
	if err == nil && items > 0 {
		SourceItemsFetched.WithLabelValues(string(tag)).Add(float64(items))
	}
}

// RecordAggregation records one whole-bundle aggregation run.
func RecordAggregation(duration time.Duration) {
	AggregationDuration.Observe(duration.Seconds())
}

// RecordDraftBuilt records a draft produced by the builder.
func RecordDraftBuilt() {
	DraftsBuiltTotal.Inc()
}

// RecordValidation records the findings of one validation run.
func RecordValidation(report entity.ValidationReport) {
	for _, f := range report.Findings {
		ValidationFindingsTotal.WithLabelValues(string(f.Severity)).Inc()
	}
}

// RecordPublish records one publish attempt outcome.
func RecordPublish(success bool) {
	if success {
		PublishAttemptsTotal.WithLabelValues("success").Inc()
		IssuesPublishedTotal.Inc()
		return
	}
	PublishAttemptsTotal.WithLabelValues("failure").Inc()
}

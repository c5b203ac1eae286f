package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-press/internal/domain/entity"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordSourceFetchSuccess(t *testing.T) {
	before := counterValue(t, SourceFetchTotal.WithLabelValues("arxiv", "ok"))
	itemsBefore := counterValue(t, SourceItemsFetched.WithLabelValues("arxiv"))

	RecordSourceFetch(entity.SourceArxiv, 120*time.Millisecond, 7, nil)

	assert.Equal(t, before+1, counterValue(t, SourceFetchTotal.WithLabelValues("arxiv", "ok")))
	assert.Equal(t, itemsBefore+7, counterValue(t, SourceItemsFetched.WithLabelValues("arxiv")))
}

func TestRecordSourceFetchFailureUsesErrorKind(t *testing.T) {
	srcErr := entity.NewSourceRateLimited(entity.SourceTwitter)
	before := counterValue(t, SourceFetchTotal.WithLabelValues("twitter", "source_rate_limited"))

	RecordSourceFetch(entity.SourceTwitter, time.Millisecond, 0, srcErr)

	assert.Equal(t, before+1,
		counterValue(t, SourceFetchTotal.WithLabelValues("twitter", "source_rate_limited")))
}

func TestRecordValidationCountsBySeverity(t *testing.T) {
	warnBefore := counterValue(t, ValidationFindingsTotal.WithLabelValues("warning"))
	errBefore := counterValue(t, ValidationFindingsTotal.WithLabelValues("error"))

	RecordValidation(entity.ValidationReport{
		Findings: []entity.ValidationFinding{
			{Severity: entity.SeverityWarning},
			{Severity: entity.SeverityError},
			{Severity: entity.SeverityError},
		},
	})

	assert.Equal(t, warnBefore+1, counterValue(t, ValidationFindingsTotal.WithLabelValues("warning")))
	assert.Equal(t, errBefore+2, counterValue(t, ValidationFindingsTotal.WithLabelValues("error")))
}

func TestRecordPublish(t *testing.T) {
	okBefore := counterValue(t, PublishAttemptsTotal.WithLabelValues("success"))
	failBefore := counterValue(t, PublishAttemptsTotal.WithLabelValues("failure"))

	RecordPublish(true)
	RecordPublish(false)

	assert.Equal(t, okBefore+1, counterValue(t, PublishAttemptsTotal.WithLabelValues("success")))
	assert.Equal(t, failBefore+1, counterValue(t, PublishAttemptsTotal.WithLabelValues("failure")))
}

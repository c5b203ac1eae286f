package worker

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics()

	m.RecordRun("success", 3*time.Second)
	m.RecordRun("failure", time.Second)
	m.RecordRun("failure", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failure")))

	m.RecordItemsFetched(17)
	assert.Equal(t, 17.0, testutil.ToFloat64(m.ItemsFetchedTotal))

	at := time.Date(2024, 1, 8, 6, 0, 0, 0, time.UTC)
	m.RecordSuccess(at)
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastSuccessTimestamp))
}

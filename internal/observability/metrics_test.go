package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordPersistedSetsWatermark(t *testing.T) {
	ts := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	RecordPersisted(ts)

	var metric dto.Metric
	require.NoError(t, recordPersistGauge.Write(&metric))
	require.Equal(t, float64(ts.Unix()), metric.GetGauge().GetValue())
}

func TestRecordPersistedIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2025, time.May, 2, 12, 0, 0, 0, time.UTC)
	RecordPersisted(ts)
	RecordPersisted(time.Time{})

	var metric dto.Metric
	require.NoError(t, recordPersistGauge.Write(&metric))
	require.Equal(t, float64(ts.Unix()), metric.GetGauge().GetValue())
}

func TestObserveAnalyticsBuildCountsSamples(t *testing.T) {
	ObserveAnalyticsBuild("overview", 25*time.Millisecond)
	ObserveAnalyticsBuild("overview", 50*time.Millisecond)

	histogram, err := analyticsDuration.GetMetricWithLabelValues("overview")
	require.NoError(t, err)

	var metric dto.Metric
	require.NoError(t, histogram.(interface{ Write(*dto.Metric) error }).Write(&metric))
	require.GreaterOrEqual(t, metric.GetHistogram().GetSampleCount(), uint64(2))
}

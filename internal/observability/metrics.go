// Package observability holds the service-level Prometheus instruments.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "portal",
		Subsystem: "persistence",
		Name:      "last_record_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity record written to Postgres.",
	})

	analyticsDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "analytics",
		Name:      "build_duration_seconds",
		Help:      "Time spent assembling analytics payloads, labeled by report.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"report"})
)

func init() {
	prometheus.MustRegister(recordPersistGauge, analyticsDuration)
}

// RecordPersisted updates the persistence watermark gauge.
func RecordPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	recordPersistGauge.Set(float64(ts.Unix()))
}

// ObserveAnalyticsBuild records how long one analytics report took to build.
func ObserveAnalyticsBuild(report string, elapsed time.Duration) {
	analyticsDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}

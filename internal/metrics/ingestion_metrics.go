package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion counter vectors
var (
	AbsenceRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "absence_records_total",
		Help:      "Total number of absence records received by source",
	}, []string{"source"})

	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "feed_requests_total",
		Help:      "Total number of feed requests by source and status",
	}, []string{"source", "status"})
)

// Ingestion histogram vectors
var (
	FeedRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hoops_edge",
		Name:      "feed_request_duration_seconds",
		Help:      "Duration of feed requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// Ingestion gauge vectors
var (
	AbsenceCacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hoops_edge",
		Name:      "absence_cache_hit_ratio",
		Help:      "Hit ratio of the cached absence source",
	}, []string{"source"})
)

// RecordAbsenceRecords records records fetched from a source.
func RecordAbsenceRecords(source string, count int) {
	AbsenceRecordsTotal.WithLabelValues(source).Add(float64(count))
}

// RecordFeedRequest records a feed request.
// status should be one of: "success", "failure"
func RecordFeedRequest(source, status string, durationSeconds float64) {
	FeedRequestsTotal.WithLabelValues(source, status).Inc()
	FeedRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// UpdateCacheHitRatio updates the cache hit ratio for a source.
func UpdateCacheHitRatio(source string, ratio float64) {
	AbsenceCacheHitRatio.WithLabelValues(source).Set(ratio)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scoring counter vectors
var (
	AliasingAnomaliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "aliasing_anomalies_total",
		Help:      "Total number of home/away input aliasing anomalies by kind",
	}, []string{"kind"})

	ReplacementActivationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "replacement_activations_total",
		Help:      "Total number of games where the rotation replacement factor activated",
	})
)

// Scoring histogram vectors
var (
	ConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hoops_edge",
		Name:      "confidence_score",
		Help:      "Game confidence scores by bucket",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"confidence"})
)

// RecordAliasingAnomaly records a detected input aliasing anomaly.
// kind should be one of: "same_reference", "same_team_id", "near_identical_stats"
func RecordAliasingAnomaly(kind string) {
	AliasingAnomaliesTotal.WithLabelValues(kind).Inc()
}

// RecordReplacementActivation records an active rotation replacement factor.
func RecordReplacementActivation() {
	ReplacementActivationsTotal.Inc()
}

// RecordConfidenceScore records a game confidence score.
func RecordConfidenceScore(confidence string, score float64) {
	ConfidenceScore.WithLabelValues(confidence).Observe(score)
}

// Package metrics provides centralized Prometheus metrics registry for the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "games_scored_total",
		Help:      "Total number of games scored by confidence bucket",
	}, []string{"confidence"})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped by reason",
	}, []string{"reason"})
	SlateRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "slate_runs_total",
		Help:      "Total number of slate scoring runs by status",
	}, []string{"status"})
	DegradedGamesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "degraded_games_total",
		Help:      "Total number of games scored with fallback player data",
	})
	PredictionsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoops_edge",
		Name:      "predictions_persisted_total",
		Help:      "Total number of predictions written to the database",
	})
)

// Gauge metrics
var (
	LastSlateGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hoops_edge",
		Name:      "last_slate_games",
		Help:      "Number of games scored in the most recent slate run",
	})
	LastSlateTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hoops_edge",
		Name:      "last_slate_timestamp_seconds",
		Help:      "Unix time of the most recent successful slate run",
	})
)

// Histogram metrics
var (
	GameScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hoops_edge",
		Name:      "game_scoring_duration_seconds",
		Help:      "Duration of a single game scoring pass in seconds",
		Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})
	SlateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hoops_edge",
		Name:      "slate_duration_seconds",
		Help:      "Duration of a full slate run in seconds, including ingestion",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
	EdgeScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hoops_edge",
		Name:      "edge_score",
		Help:      "Distribution of total edge scores",
		Buckets:   []float64{-40, -20, -10, -5, 0, 5, 10, 20, 40},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(GamesScoredTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(SlateRunsTotal)
		registry.MustRegister(DegradedGamesTotal)
		registry.MustRegister(PredictionsPersistedTotal)

		// Register gauge metrics
		registry.MustRegister(LastSlateGames)
		registry.MustRegister(LastSlateTimestamp)

		// Register histogram metrics
		registry.MustRegister(GameScoringDuration)
		registry.MustRegister(SlateDuration)
		registry.MustRegister(EdgeScore)

		// Register scoring metrics
		registry.MustRegister(AliasingAnomaliesTotal)
		registry.MustRegister(ReplacementActivationsTotal)
		registry.MustRegister(ConfidenceScore)

		// Register ingestion metrics
		registry.MustRegister(AbsenceRecordsTotal)
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(FeedRequestDuration)
		registry.MustRegister(AbsenceCacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordGameScored records a scored game and its pass duration.
func RecordGameScored(confidence string, edge, durationSeconds float64) {
	GamesScoredTotal.WithLabelValues(confidence).Inc()
	EdgeScore.Observe(edge)
	GameScoringDuration.Observe(durationSeconds)
}

// RecordGameSkipped records a game that could not be scored.
func RecordGameSkipped(reason string) {
	GamesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordDegradedGame records a game scored with fallback players.
func RecordDegradedGame() {
	DegradedGamesTotal.Inc()
}

// RecordSlateRun records a slate run outcome.
// status should be one of: "success", "failure"
func RecordSlateRun(status string, games int, durationSeconds float64) {
	SlateRunsTotal.WithLabelValues(status).Inc()
	SlateDuration.Observe(durationSeconds)
	if status == "success" {
		LastSlateGames.Set(float64(games))
		LastSlateTimestamp.SetToCurrentTime()
	}
}

// RecordPredictionsPersisted records rows written to storage.
func RecordPredictionsPersisted(count int) {
	PredictionsPersistedTotal.Add(float64(count))
}

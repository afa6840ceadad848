package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for absence and stats ingestion.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogSourceFetched logs a successful absence source fetch.
func (il *IngestionLogger) LogSourceFetched(source, kind string, records int, cacheHit bool, latencyMs float64) {
	il.WithFields(logrus.Fields{
		"source":     source,
		"kind":       kind,
		"records":    records,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Absence source fetched")
}

// LogSourceFailed logs an absence source that could not be fetched.
func (il *IngestionLogger) LogSourceFailed(source, kind, errorReason string) {
	il.WithFields(logrus.Fields{
		"source":       source,
		"kind":         kind,
		"error_reason": errorReason,
	}).Error("Absence source fetch failed")
}

// LogFusionReport logs the per-source fusion summary.
func (il *IngestionLogger) LogFusionReport(date string, fusedRecords int, report string) {
	il.WithFields(logrus.Fields{
		"slate_date":    date,
		"fused_records": fusedRecords,
		"report":        report,
	}).Info("Absence sources fused")
}

// LogFallbackPlayers logs fallback player substitution for a team.
func (il *IngestionLogger) LogFallbackPlayers(team string, count int) {
	il.WithFields(logrus.Fields{
		"team":             team,
		"fallback_players": count,
	}).Warn("Player stats missing; substituted fallback players")
}

// LogInvalidRecord logs a record dropped at the ingestion boundary.
func (il *IngestionLogger) LogInvalidRecord(source string, errors []string) {
	il.WithFields(logrus.Fields{
		"source": source,
		"errors": errors,
	}).Warn("Invalid record dropped")
}

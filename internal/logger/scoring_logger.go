package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for game scoring.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogGameScored logs a completed game score.
func (sl *ScoringLogger) LogGameScored(gameID, matchup, pick string, edge, pickProb float64, confidence string, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"game_id":             gameID,
		"matchup":             matchup,
		"pick":                pick,
		"edge_score":          edge,
		"pick_prob":           pickProb,
		"confidence":          confidence,
		"scoring_duration_ms": durationMs,
	}).Info("Game scored")
}

// LogGameSkipped logs a game that could not be scored.
func (sl *ScoringLogger) LogGameSkipped(gameID, matchup, reason string) {
	sl.WithFields(logrus.Fields{
		"game_id": gameID,
		"matchup": matchup,
		"reason":  reason,
	}).Warn("Game skipped")
}

// LogAliasingAnomaly logs home/away inputs that look like the same team.
func (sl *ScoringLogger) LogAliasingAnomaly(gameID, kind, team string, identicalFields, comparedFields int) {
	sl.WithFields(logrus.Fields{
		"game_id":          gameID,
		"anomaly_kind":     kind,
		"team":             team,
		"identical_fields": identicalFields,
		"compared_fields":  comparedFields,
	}).Warn("Home and away inputs aliased; scoring on defensive copies")
}

// LogReplacementActive logs an activated rotation replacement factor.
func (sl *ScoringLogger) LogReplacementActive(gameID string, triggers []string, edge float64) {
	sl.WithFields(logrus.Fields{
		"game_id":          gameID,
		"triggers":         triggers,
		"replacement_edge": edge,
	}).Debug("Rotation replacement active")
}

// LogDegradedData logs a team scored with fallback players.
func (sl *ScoringLogger) LogDegradedData(gameID, team string) {
	sl.WithFields(logrus.Fields{
		"game_id": gameID,
		"team":    team,
	}).Warn("No player data; using fallback players")
}

// LogSlateCompleted logs the end of a slate run.
func (sl *ScoringLogger) LogSlateCompleted(runID, date string, scored, skipped int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"run_id":            runID,
		"slate_date":        date,
		"games_scored":      scored,
		"games_skipped":     skipped,
		"slate_duration_ms": durationMs,
	}).Info("Slate scoring completed")
}

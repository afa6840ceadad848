package models

import "fmt"

// AnomalyKind classifies a diagnostic raised during one scoring pass.
type AnomalyKind string

// Anomaly kinds.
const (
	AnomalySameReference   AnomalyKind = "same_reference"
	AnomalySameTeamID      AnomalyKind = "same_team_id"
	AnomalyNearIdentical   AnomalyKind = "near_identical_stats"
	AnomalyFallbackPlayers AnomalyKind = "fallback_players"
)

// Anomaly is one diagnostic entry in a ScoringTrace.
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	Team    string      `json:"team,omitempty"`
	Message string      `json:"message"`
}

// ScoringTrace collects diagnostics for a single scoring pass. A new trace is
// created per game and returned with its GameScore; nothing is shared across runs.
type ScoringTrace struct {
	GameID             string                `json:"game_id"`
	Anomalies          []Anomaly             `json:"anomalies,omitempty"`
	IdenticalFields    int                   `json:"identical_fields"`
	ComparedFields     int                   `json:"compared_fields"`
	InputsCopied       bool                  `json:"inputs_copied"`
	HomeFallback       bool                  `json:"home_fallback"`
	AwayFallback       bool                  `json:"away_fallback"`
	DampeningReason    string                `json:"dampening_reason,omitempty"`
	ReplacementActive  bool                  `json:"replacement_active"`
	FusionSourceCounts map[AbsenceSource]int `json:"fusion_source_counts,omitempty"`
}

// NewScoringTrace returns an empty trace for gameID.
func NewScoringTrace(gameID string) *ScoringTrace {
	return &ScoringTrace{GameID: gameID}
}

// AddAnomaly appends a diagnostic.
func (t *ScoringTrace) AddAnomaly(kind AnomalyKind, team, format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.Anomalies = append(t.Anomalies, Anomaly{
		Kind:    kind,
		Team:    team,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasAnomaly reports whether an anomaly of kind was recorded.
func (t *ScoringTrace) HasAnomaly(kind AnomalyKind) bool {
	if t == nil {
		return false
	}
	for _, a := range t.Anomalies {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Critical reports whether the trace holds an aliasing anomaly.
func (t *ScoringTrace) Critical() bool {
	return t.HasAnomaly(AnomalySameReference) || t.HasAnomaly(AnomalySameTeamID)
}

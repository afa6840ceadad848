package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DataConfidence flags whether the player inputs were real or substituted.
type DataConfidence string

// Data confidence values.
const (
	DataConfidenceFull     DataConfidence = "FULL"
	DataConfidenceDegraded DataConfidence = "DEGRADED"
)

// Side identifies one team in a matchup.
type Side string

// Matchup sides.
const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// FactorResult is one weighted scoring factor. Contribution is Weight × SignedValue.
type FactorResult struct {
	Name         string  `json:"name"`
	DisplayName  string  `json:"display_name"`
	Weight       int     `json:"weight"`
	SignedValue  float64 `json:"signed_value"`
	Contribution float64 `json:"contribution"`
	InputsUsed   string  `json:"inputs_used"`
}

// StarTier labels a tiered star.
type StarTier string

// Star tiers.
const (
	TierA StarTier = "A"
	TierB StarTier = "B"
)

// StarDetail describes one tiered player's contribution to the star edge.
type StarDetail struct {
	Name       string          `json:"name"`
	Tier       StarTier        `json:"tier"`
	PPG        float64         `json:"ppg"`
	APG        float64         `json:"apg"`
	MPG        float64         `json:"mpg"`
	Impact     float64         `json:"impact"`
	Status     CanonicalStatus `json:"status"`
	Multiplier float64         `json:"multiplier"`
	Points     float64         `json:"points"`
}

// StarImpactResult is the output of the tiered star model for one game.
type StarImpactResult struct {
	HomePoints      float64      `json:"home_points"`
	AwayPoints      float64      `json:"away_points"`
	RawEdge         float64      `json:"raw_edge"`
	Dampening       float64      `json:"dampening"`
	DampeningReason string       `json:"dampening_reason"`
	DampenedEdge    float64      `json:"dampened_edge"`
	SignedValue     float64      `json:"signed_value"`
	HomeStars       []StarDetail `json:"home_stars"`
	AwayStars       []StarDetail `json:"away_stars"`
}

// ReplacementTeamDetail is the next-man-up comparison for one team.
type ReplacementTeamDetail struct {
	AbsentStars        []string `json:"absent_stars"`
	Candidates         []string `json:"candidates"`
	AbsentQuality      float64  `json:"absent_quality"`
	ReplacementQuality float64  `json:"replacement_quality"`
	Points             float64  `json:"points"`
}

// ReplacementResult is the output of the rotation replacement model.
type ReplacementResult struct {
	Active      bool                   `json:"active"`
	Reason      string                 `json:"reason"`
	Triggers    []string               `json:"triggers"`
	Edge        float64                `json:"edge"`
	SignedValue float64                `json:"signed_value"`
	Home        *ReplacementTeamDetail `json:"home,omitempty"`
	Away        *ReplacementTeamDetail `json:"away,omitempty"`
}

// GameScore is the complete, immutable result for one scored game.
type GameScore struct {
	ID              uuid.UUID              `json:"id"`
	GameID          string                 `json:"game_id"`
	GameDate        time.Time              `json:"game_date"`
	HomeTeam        string                 `json:"home_team"`
	AwayTeam        string                 `json:"away_team"`
	EdgeScoreTotal  float64                `json:"edge_score_total"`
	ProjectedMargin float64                `json:"projected_margin"`
	HomeWinProb     float64                `json:"home_win_prob"`
	AwayWinProb     float64                `json:"away_win_prob"`
	PredictedWinner string                 `json:"predicted_winner"`
	PickSide        Side                   `json:"pick_side"`
	PickProb        float64                `json:"pick_prob"`
	ConfidenceLabel AvailabilityConfidence `json:"confidence_label"`
	ConfidenceScore float64                `json:"confidence_score"`
	ConfidencePct   int                    `json:"confidence_pct"`
	Factors         []FactorResult         `json:"factors"`
	HomeLineup      LineupAdjustedStrength `json:"home_lineup"`
	AwayLineup      LineupAdjustedStrength `json:"away_lineup"`
	StarImpact      StarImpactResult       `json:"star_impact"`
	Replacement     ReplacementResult      `json:"replacement"`
	DataConfidence  DataConfidence         `json:"data_confidence"`
	Trace           *ScoringTrace          `json:"trace,omitempty"`
	ScoredAt        time.Time              `json:"scored_at"`
}

// TopFactors returns the n factors with the largest absolute contribution.
// The stored factor order is left untouched.
func (g *GameScore) TopFactors(n int) []FactorResult {
	sorted := make([]FactorResult, len(g.Factors))
	copy(sorted, g.Factors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return abs(sorted[i].Contribution) > abs(sorted[j].Contribution)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopFactorsString renders the top factors as "Name:+x.x, Name:-y.y".
func (g *GameScore) TopFactorsString(n int) string {
	parts := make([]string, 0, n)
	for _, f := range g.TopFactors(n) {
		parts = append(parts, fmt.Sprintf("%s:%+.1f", f.DisplayName, f.Contribution))
	}
	return strings.Join(parts, ", ")
}

// Matchup returns "AWAY @ HOME".
func (g *GameScore) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

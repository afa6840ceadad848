package models

// PlayerStats is the single normalized per-player record built at the ingestion boundary.
// Every field downstream code reads is populated here.
type PlayerStats struct {
	Name           string  `json:"name" validate:"required"`
	Team           string  `json:"team" validate:"required"`
	MinutesPerGame float64 `json:"minutes_per_game" validate:"gte=0,lte=48"`
	PointsPerGame  float64 `json:"points_per_game" validate:"gte=0"`
	AssistsPerGame float64 `json:"assists_per_game" validate:"gte=0"`
	GamesPlayed    int     `json:"games_played" validate:"gte=0"`
	HasMinutes     bool    `json:"has_minutes"`
	IsFallback     bool    `json:"is_fallback,omitempty"`
}

// PointsPerMinute returns scoring rate, guarding against zero minutes.
func (p PlayerStats) PointsPerMinute() float64 {
	if p.MinutesPerGame <= 0 {
		return 0
	}
	return p.PointsPerGame / p.MinutesPerGame
}

// PlayerImpact is a ranked player with a precomputed impact score.
type PlayerImpact struct {
	PlayerStats
	ImpactScore float64 `json:"impact_score"`
	ImpactRank  int     `json:"impact_rank"`
	IsKeyPlayer bool    `json:"is_key_player"`
	IsStar      bool    `json:"is_star"`
}

// PlayerStatusDetail records how a key player's availability was resolved.
type PlayerStatusDetail struct {
	Name       string          `json:"name"`
	Impact     float64         `json:"impact"`
	IsStar     bool            `json:"is_star"`
	Status     CanonicalStatus `json:"status"`
	Multiplier float64         `json:"multiplier"`
	Matched    bool            `json:"matched"`
	Source     AbsenceSource   `json:"source,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

package star

import (
	"fmt"
	"math"

	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	tierAPoints = 4.0
	tierBPoints = 2.0

	// EdgeClamp bounds the raw star edge in points.
	EdgeClamp = 6.0
)

// Params holds the overridable dampening multipliers.
type Params struct {
	// Recent applies when a star's status changed recently or the lineup
	// sample is small, so the team stats do not yet reflect the absence.
	Recent float64
	// Stale applies when the absence is old enough to be in the team stats.
	Stale float64
	// Default applies when no status-change context is available.
	Default float64
	// SmallSampleGames is the largest games-since-change still treated as recent.
	SmallSampleGames int
}

// DefaultParams returns the standard dampening multipliers.
func DefaultParams() Params {
	return Params{
		Recent:           1.0,
		Stale:            0.35,
		Default:          0.60,
		SmallSampleGames: 10,
	}
}

// DampeningContext describes how recently the lineup picture changed.
// Both fields are optional; StatusChangedRecently wins when set.
type DampeningContext struct {
	StatusChangedRecently *bool `json:"status_changed_recently,omitempty"`
	GamesSinceChange      *int  `json:"games_since_change,omitempty"`
}

// TeamInput is one side of the matchup.
type TeamInput struct {
	Team    string
	Players []models.PlayerImpact
}

// Model computes the dampened star edge for a matchup.
type Model struct {
	params Params
}

// NewModel creates a star impact model.
func NewModel(params Params) *Model {
	return &Model{params: params}
}

// Params returns the model's dampening parameters.
func (m *Model) Params() Params {
	return m.params
}

// Compute scores both teams' tiers, clamps the edge and applies dampening.
func (m *Model) Compute(home, away TeamInput, resolver StatusResolver, ctx DampeningContext) models.StarImpactResult {
	homePts, homeStars := teamStarPoints(home, resolver)
	awayPts, awayStars := teamStarPoints(away, resolver)

	rawEdge := clamp(homePts-awayPts, -EdgeClamp, EdgeClamp)
	mult, reason := m.dampening(ctx)
	dampened := rawEdge * mult

	return models.StarImpactResult{
		HomePoints:      homePts,
		AwayPoints:      awayPts,
		RawEdge:         rawEdge,
		Dampening:       mult,
		DampeningReason: reason,
		DampenedEdge:    dampened,
		SignedValue:     clamp(dampened/EdgeClamp, -1, 1),
		HomeStars:       homeStars,
		AwayStars:       awayStars,
	}
}

func (m *Model) dampening(ctx DampeningContext) (float64, string) {
	if ctx.StatusChangedRecently != nil {
		if *ctx.StatusChangedRecently {
			return m.params.Recent, "Recent status change detected"
		}
		return m.params.Stale, "No recent status change, stats likely reflect injury"
	}
	if ctx.GamesSinceChange != nil {
		games := *ctx.GamesSinceChange
		if games <= m.params.SmallSampleGames {
			return m.params.Recent, fmt.Sprintf("Small sample (%d games), injury may be new info", games)
		}
		return m.params.Stale, fmt.Sprintf("Large sample (%d games), stats likely reflect injury", games)
	}
	return m.params.Default, "No context available, using moderate dampening"
}

func teamStarPoints(in TeamInput, resolver StatusResolver) (float64, []models.StarDetail) {
	tiers := SelectTiers(in.Players)
	details := make([]models.StarDetail, 0, len(tiers.A)+len(tiers.B))
	var total float64

	add := func(p models.PlayerImpact, tier models.StarTier, base float64) {
		status := resolveStatus(resolver, in.Team, p, p.IsStar)
		points := base * status.Multiplier
		total += points
		details = append(details, models.StarDetail{
			Name:       p.Name,
			Tier:       tier,
			PPG:        p.PointsPerGame,
			APG:        p.AssistsPerGame,
			MPG:        p.MinutesPerGame,
			Impact:     TierMetric(p.PlayerStats),
			Status:     status.Status,
			Multiplier: status.Multiplier,
			Points:     points,
		})
	}
	for _, p := range tiers.A {
		add(p, models.TierA, tierAPoints)
	}
	for _, p := range tiers.B {
		add(p, models.TierB, tierBPoints)
	}
	return total, details
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package lineup

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	// KeyPlayerCount is how many top-impact players drive availability.
	KeyPlayerCount = 6
	// StarCount is how many top-impact players are treated as stars.
	StarCount = 2

	availabilityPenaltyScale = 10.0
	maxRatingPenalty         = 8.0

	uncertainPlayerPenalty = 0.1
	unconfirmedStarPenalty = 0.15
	lowTierPenalty         = 0.2
	mediumTierPenalty      = 0.1
	maxConfidencePenalty   = 0.5
)

// Input is everything the adjuster needs for one team.
type Input struct {
	Baseline models.TeamBaselineStrength
	Players  []models.PlayerImpact
	IsHome   bool
}

// Adjust applies the resolved lineup to a team's baseline strength.
func Adjust(in Input, resolver *Resolver) models.LineupAdjustedStrength {
	base := BaseRating(in.Baseline, in.IsHome)
	keyPlayers := KeyPlayers(in.Players)

	result := models.LineupAdjustedStrength{
		Team:             in.Baseline.Team,
		BaseNetRating:    base,
		MissingPlayers:   []string{},
		StarsOut:         []string{},
		StarsUnconfirmed: []string{},
		Players:          make([]models.PlayerStatusDetail, 0, len(keyPlayers)),
	}

	var totalImpact, availableImpact float64
	var starsTotal, starsUnconfirmed, uncertainStars, uncertainPlayers int

	for _, p := range keyPlayers {
		detail := resolver.Resolve(in.Baseline.Team, p.Name, p.IsStar)
		if p.IsFallback {
			detail = models.PlayerStatusDetail{Name: p.Name, IsStar: p.IsStar, Status: models.StatusAvailable, Multiplier: 1}
		}
		detail.Impact = p.ImpactScore
		result.Players = append(result.Players, detail)

		totalImpact += p.ImpactScore
		availableImpact += p.ImpactScore * detail.Multiplier

		if detail.Status.IsAbsent() {
			result.MissingPlayers = append(result.MissingPlayers, fmt.Sprintf("%s (%s)", p.Name, detail.Status.Label()))
		}
		if detail.Status.IsUncertain() {
			uncertainPlayers++
		}

		if !p.IsStar {
			continue
		}
		starsTotal++
		if detail.Status == models.StatusUnknown {
			starsUnconfirmed++
			result.StarsUnconfirmed = append(result.StarsUnconfirmed, p.Name)
		}
		if detail.Status.IsAbsent() {
			result.StarsOut = append(result.StarsOut, p.Name)
		}
		if detail.Status.IsUncertain() {
			uncertainStars++
		}
	}

	result.AvailabilityFraction = 1.0
	if totalImpact > 0 {
		result.AvailabilityFraction = availableImpact / totalImpact
	}

	penalty := math.Min(maxRatingPenalty, (1-result.AvailabilityFraction)*availabilityPenaltyScale)
	result.AdjustedNetRating = base - penalty

	result.AvailabilityConfidence = ConfidenceTier(resolver.Coverage(), starsTotal-starsUnconfirmed, starsTotal, uncertainStars)
	result.ConfidencePenalty = confidencePenalty(uncertainPlayers, starsUnconfirmed, result.AvailabilityConfidence)

	return result
}

// BaseRating averages the venue split with the blended recent-form rating.
// When no blended rating exists the split is used alone.
func BaseRating(b models.TeamBaselineStrength, isHome bool) float64 {
	split := b.RoadNetRating
	if isHome {
		split = b.HomeNetRating
	}
	if b.BlendedNet == 0 {
		return split
	}
	return (split + b.BlendedNet) / 2
}

// KeyPlayers returns the top players by impact rank, at most KeyPlayerCount.
func KeyPlayers(players []models.PlayerImpact) []models.PlayerImpact {
	sorted := make([]models.PlayerImpact, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactRank < sorted[j].ImpactRank
	})
	if len(sorted) > KeyPlayerCount {
		sorted = sorted[:KeyPlayerCount]
	}
	return sorted
}

// ConfidenceTier rates the lineup picture from source coverage and star resolution.
func ConfidenceTier(cov Coverage, starsMatched, starsTotal, uncertainStars int) models.AvailabilityConfidence {
	if cov.None() {
		return models.ConfidenceLow
	}
	allMatched := starsMatched >= starsTotal
	if cov.InjuryReportAvailable && allMatched && uncertainStars == 0 {
		return models.ConfidenceHigh
	}
	if cov.InactivesAvailable && allMatched {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func confidencePenalty(uncertainPlayers, unconfirmedStars int, tier models.AvailabilityConfidence) float64 {
	p := float64(uncertainPlayers)*uncertainPlayerPenalty + float64(unconfirmedStars)*unconfirmedStarPenalty
	switch tier {
	case models.ConfidenceLow:
		p += lowTierPenalty
	case models.ConfidenceMedium:
		p += mediumTierPenalty
	}
	return math.Min(p, maxConfidencePenalty)
}

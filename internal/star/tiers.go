// Package star models the tiered impact of a team's best players and the
// next-man-up replacement effect when one of them is missing.
package star

import (
	"sort"

	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	// MinRotationMinutes is the minutes-per-game floor for tier eligibility.
	MinRotationMinutes = 20.0

	assistWeight = 0.7
	tierACount   = 1
	tierBCount   = 2
)

// StatusResolver resolves a player's availability for one team.
// lineup.Resolver satisfies it.
type StatusResolver interface {
	Resolve(team, player string, isStar bool) models.PlayerStatusDetail
}

// resolveStatus resolves p, treating generic fallback players as available.
func resolveStatus(resolver StatusResolver, team string, p models.PlayerImpact, isStar bool) models.PlayerStatusDetail {
	if p.IsFallback {
		return models.PlayerStatusDetail{Name: p.Name, IsStar: isStar, Status: models.StatusAvailable, Multiplier: 1}
	}
	return resolver.Resolve(team, p.Name, isStar)
}

// Tiers holds the selected stars for one team.
type Tiers struct {
	A []models.PlayerImpact
	B []models.PlayerImpact
}

// All returns Tier A followed by Tier B.
func (t Tiers) All() []models.PlayerImpact {
	out := make([]models.PlayerImpact, 0, len(t.A)+len(t.B))
	out = append(out, t.A...)
	return append(out, t.B...)
}

// Contains reports whether name is one of the tiered players.
func (t Tiers) Contains(name string) bool {
	for _, p := range t.All() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// TierMetric ranks stars by scoring plus weighted playmaking.
func TierMetric(p models.PlayerStats) float64 {
	return p.PointsPerGame + assistWeight*p.AssistsPerGame
}

// SelectTiers picks Tier A (top one) and Tier B (next two) by TierMetric among
// rotation players. Players without minutes data are eligible. When nobody
// qualifies the whole roster is considered.
func SelectTiers(players []models.PlayerImpact) Tiers {
	if len(players) == 0 {
		return Tiers{}
	}

	candidates := make([]models.PlayerImpact, 0, len(players))
	for _, p := range players {
		if !p.HasMinutes || p.MinutesPerGame >= MinRotationMinutes {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, players...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		mi, mj := TierMetric(candidates[i].PlayerStats), TierMetric(candidates[j].PlayerStats)
		if mi != mj {
			return mi > mj
		}
		return candidates[i].Name < candidates[j].Name
	})

	var tiers Tiers
	tiers.A = candidates[:tierACount]
	end := tierACount + tierBCount
	if end > len(candidates) {
		end = len(candidates)
	}
	tiers.B = candidates[tierACount:end]
	return tiers
}

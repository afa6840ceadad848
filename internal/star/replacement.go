package star

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	// ReplacementClamp bounds the replacement edge in points.
	ReplacementClamp = 2.5

	absentThreshold    = 0.25
	candidateMinMult   = 0.85
	candidateMinMPG    = 10.0
	candidateMaxMPG    = 30.0
	candidateDefMPG    = 15.0
	absentStarDefMPG   = 32.0
	maxCandidates      = 3
	qualityScale       = 10.0
	teamPointsFloor    = -2.0
	teamPointsCeiling  = 1.0
	inactiveReplReason = "No Tier A/B stars OUT or DOUBTFUL"
)

type absentStar struct {
	name   string
	tier   models.StarTier
	status models.CanonicalStatus
	mpg    float64
	ppm    float64
}

type candidate struct {
	name string
	mpg  float64
	ppm  float64
}

// Replacement evaluates next-man-up quality. It is inactive unless a Tier A or
// Tier B player on either side is OUT or DOUBTFUL.
func Replacement(home, away TeamInput, resolver StatusResolver) models.ReplacementResult {
	homeTiers := SelectTiers(home.Players)
	awayTiers := SelectTiers(away.Players)

	homeAbsent := absentStars(home.Team, homeTiers, resolver)
	awayAbsent := absentStars(away.Team, awayTiers, resolver)

	if len(homeAbsent) == 0 && len(awayAbsent) == 0 {
		return models.ReplacementResult{
			Active:   false,
			Reason:   inactiveReplReason,
			Triggers: []string{},
		}
	}

	result := models.ReplacementResult{Active: true, Triggers: []string{}}

	var homePts, awayPts float64
	if len(homeAbsent) > 0 {
		result.Home = teamReplacement(home, homeTiers, homeAbsent, resolver)
		homePts = result.Home.Points
	}
	if len(awayAbsent) > 0 {
		result.Away = teamReplacement(away, awayTiers, awayAbsent, resolver)
		awayPts = result.Away.Points
	}

	for _, s := range homeAbsent {
		result.Triggers = append(result.Triggers, fmt.Sprintf("%s %s: %s (%s)", models.SideHome, s.tier, s.name, s.status))
	}
	for _, s := range awayAbsent {
		result.Triggers = append(result.Triggers, fmt.Sprintf("%s %s: %s (%s)", models.SideAway, s.tier, s.name, s.status))
	}

	result.Edge = clamp(homePts-awayPts, -ReplacementClamp, ReplacementClamp)
	result.SignedValue = clamp(result.Edge/ReplacementClamp, -1, 1)
	result.Reason = "Star absence detected: " + strings.Join(result.Triggers, ", ")
	return result
}

func absentStars(team string, tiers Tiers, resolver StatusResolver) []absentStar {
	var out []absentStar
	collect := func(players []models.PlayerImpact, tier models.StarTier) {
		for _, p := range players {
			status := resolveStatus(resolver, team, p, p.IsStar)
			if status.Multiplier > absentThreshold {
				continue
			}
			mpg := p.MinutesPerGame
			if !p.HasMinutes || mpg <= 0 {
				mpg = absentStarDefMPG
			}
			out = append(out, absentStar{
				name:   p.Name,
				tier:   tier,
				status: status.Status,
				mpg:    mpg,
				ppm:    p.PointsPerGame / math.Max(mpg, 1),
			})
		}
	}
	collect(tiers.A, models.TierA)
	collect(tiers.B, models.TierB)
	return out
}

func replacementCandidates(in TeamInput, tiers Tiers, resolver StatusResolver) []candidate {
	var out []candidate
	for _, p := range in.Players {
		if tiers.Contains(p.Name) {
			continue
		}
		status := resolveStatus(resolver, in.Team, p, p.IsStar)
		if status.Multiplier < candidateMinMult {
			continue
		}
		mpg := p.MinutesPerGame
		if !p.HasMinutes {
			mpg = candidateDefMPG
		} else if mpg < candidateMinMPG || mpg > candidateMaxMPG {
			continue
		}
		out = append(out, candidate{
			name: p.Name,
			mpg:  mpg,
			ppm:  p.PointsPerGame / math.Max(mpg, 1),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].mpg > out[j].mpg })
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

func teamReplacement(in TeamInput, tiers Tiers, absent []absentStar, resolver StatusResolver) *models.ReplacementTeamDetail {
	candidates := replacementCandidates(in, tiers, resolver)

	var absentMPG, absentWeighted float64
	detail := &models.ReplacementTeamDetail{
		AbsentStars: make([]string, 0, len(absent)),
		Candidates:  make([]string, 0, len(candidates)),
	}
	for _, s := range absent {
		absentMPG += s.mpg
		absentWeighted += s.ppm * s.mpg
		detail.AbsentStars = append(detail.AbsentStars, s.name)
	}
	var candMPG, candWeighted float64
	for _, c := range candidates {
		candMPG += c.mpg
		candWeighted += c.ppm * c.mpg
		detail.Candidates = append(detail.Candidates, fmt.Sprintf("%s(%.2f)", c.name, c.ppm))
	}

	if len(absent) > 0 {
		detail.AbsentQuality = absentWeighted / math.Max(absentMPG, 1)
	}
	if len(candidates) > 0 {
		detail.ReplacementQuality = candWeighted / math.Max(candMPG, 1)
	}
	delta := detail.ReplacementQuality - detail.AbsentQuality
	detail.Points = clamp(delta*qualityScale, teamPointsFloor, teamPointsCeiling)
	return detail
}

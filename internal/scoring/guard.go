package scoring

import (
	"strings"

	"github.com/yourusername/hoops-edge/internal/models"
)

// nearIdenticalThreshold is the share of identical comparable fields above
// which home and away inputs are treated as aliased.
const nearIdenticalThreshold = 0.70

// comparableFields extracts the stats compared by the aliasing check.
func comparableFields(t *models.TeamBaselineStrength) []float64 {
	return []float64{
		t.EFGPct,
		t.TOVPct,
		t.OREBPct,
		t.FTRate,
		t.FG3Pct,
		t.FG3ARate,
		t.OppEFGPct,
		t.Pace,
		t.OffRating,
		t.DefRating,
		t.NetRating,
	}
}

// GuardResult describes what the aliasing check found.
type GuardResult struct {
	Kind            models.AnomalyKind
	IdenticalFields int
	ComparedFields  int
}

// Aliased reports whether any anomaly was found.
func (g GuardResult) Aliased() bool {
	return g.Kind != ""
}

// CheckAliasing compares home and away inputs. A shared pointer, a shared
// team id, or more than 70% identical comparable fields means an upstream
// fallback handed the same team to both sides.
func CheckAliasing(home, away *models.TeamBaselineStrength) GuardResult {
	var res GuardResult
	if home == nil || away == nil {
		return res
	}

	hf, af := comparableFields(home), comparableFields(away)
	res.ComparedFields = len(hf)
	for i := range hf {
		if hf[i] == af[i] {
			res.IdenticalFields++
		}
	}

	switch {
	case home == away:
		res.Kind = models.AnomalySameReference
	case home.Team != "" && strings.EqualFold(strings.TrimSpace(home.Team), strings.TrimSpace(away.Team)):
		res.Kind = models.AnomalySameTeamID
	case float64(res.IdenticalFields)/float64(res.ComparedFields) > nearIdenticalThreshold:
		res.Kind = models.AnomalyNearIdentical
	}
	return res
}

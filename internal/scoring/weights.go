// Package scoring combines the weighted matchup factors into a bounded edge score.
package scoring

import (
	"fmt"
	"sort"

	"github.com/yourusername/hoops-edge/internal/models"
)

// TotalWeight is the required sum of all factor weights.
const TotalWeight = 100

// Factor names in scoring order.
const (
	FactorNetRating        = "net_rating"
	FactorStarAvailability = "star_availability"
	FactorOffVsDef         = "off_vs_def"
	FactorTurnoverDiff     = "turnover_diff"
	FactorShotQuality      = "shot_quality"
	FactorThreePointEdge   = "three_point_edge"
	FactorFreeThrowRate    = "free_throw_rate"
	FactorRebounding       = "rebounding"
	FactorHomeCourt        = "home_court"
	FactorRestFatigue      = "rest_fatigue"
	FactorRimProtection    = "rim_protection"
	FactorPerimeterDefense = "perimeter_defense"
	FactorMatchupFit       = "matchup_fit"
	FactorBenchDepth       = "bench_depth"
	FactorPaceControl      = "pace_control"
	FactorLateGameCreation = "late_game_creation"
	FactorCoaching         = "coaching"
	FactorFoulTroubleRisk  = "foul_trouble_risk"
	FactorShootingVariance = "shooting_variance"
	FactorMotivation       = "motivation"
)

// Weights maps factor name to its integer weight.
type Weights map[string]int

// DefaultWeights returns the standard factor weights.
func DefaultWeights() Weights {
	return Weights{
		FactorNetRating:        14,
		FactorStarAvailability: 12,
		FactorOffVsDef:         8,
		FactorTurnoverDiff:     6,
		FactorShotQuality:      6,
		FactorThreePointEdge:   6,
		FactorFreeThrowRate:    5,
		FactorRebounding:       5,
		FactorHomeCourt:        5,
		FactorRestFatigue:      5,
		FactorRimProtection:    4,
		FactorPerimeterDefense: 4,
		FactorMatchupFit:       3,
		FactorBenchDepth:       3,
		FactorPaceControl:      3,
		FactorLateGameCreation: 3,
		FactorCoaching:         2,
		FactorFoulTroubleRisk:  2,
		FactorShootingVariance: 2,
		FactorMotivation:       2,
	}
}

// NewWeights applies overrides on top of the defaults and validates the result.
func NewWeights(overrides map[string]int) (Weights, error) {
	w := DefaultWeights()
	for name, weight := range overrides {
		if _, ok := w[name]; !ok {
			return nil, fmt.Errorf("%w: unknown factor %q", models.ErrInvalidWeights, name)
		}
		w[name] = weight
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks that every factor has a non-negative weight and the total is exactly 100.
func (w Weights) Validate() error {
	for _, def := range factorDefs {
		v, ok := w[def.name]
		if !ok {
			return fmt.Errorf("%w: missing factor %q", models.ErrInvalidWeights, def.name)
		}
		if v < 0 {
			return fmt.Errorf("%w: factor %q has negative weight %d", models.ErrInvalidWeights, def.name, v)
		}
	}
	if len(w) != len(factorDefs) {
		return fmt.Errorf("%w: expected %d factors, got %d", models.ErrInvalidWeights, len(factorDefs), len(w))
	}
	if sum := w.Sum(); sum != TotalWeight {
		return fmt.Errorf("%w: got %d", models.ErrInvalidWeights, sum)
	}
	return nil
}

// Diff lists factors whose weight differs from the defaults, sorted by name.
func (w Weights) Diff() []string {
	defaults := DefaultWeights()
	var out []string
	for name, v := range w {
		if defaults[name] != v {
			out = append(out, fmt.Sprintf("%s: %d -> %d", name, defaults[name], v))
		}
	}
	sort.Strings(out)
	return out
}

// FactorNames returns factor names in scoring order.
func FactorNames() []string {
	names := make([]string, len(factorDefs))
	for i, def := range factorDefs {
		names[i] = def.name
	}
	return names
}

// DisplayName returns the human-readable label for a factor.
func DisplayName(name string) string {
	for _, def := range factorDefs {
		if def.name == name {
			return def.display
		}
	}
	return name
}

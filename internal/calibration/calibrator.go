// Package calibration maps an edge score to a projected margin, a bounded win
// probability, a pick and a confidence bucket.
package calibration

import (
	"math"

	"github.com/yourusername/hoops-edge/internal/models"
)

// Confidence blend weights and bucket thresholds.
const (
	injuryWeight       = 0.35
	volatilityWeight   = 0.25
	edgeWeight         = 0.25
	availabilityWeight = 0.15

	edgeRatingScale = 10.0

	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// Params are the overridable calibration constants.
type Params struct {
	EdgeToMargin    float64
	MarginProbScale float64
	ProbMin         float64
	ProbMax         float64
	// TieBand is the edge magnitude at or below which the pick falls back to probability.
	TieBand float64
}

// DefaultParams returns the standard calibration constants.
func DefaultParams() Params {
	return Params{
		EdgeToMargin:    4.5,
		MarginProbScale: 7.0,
		ProbMin:         0.05,
		ProbMax:         0.95,
		TieBand:         0.5,
	}
}

// Pick is the selected side and the probability reported for it.
type Pick struct {
	Side models.Side
	Prob float64
}

// Confidence is the blended game confidence.
type Confidence struct {
	Score float64
	Label models.AvailabilityConfidence
	Pct   int
}

// ConfidenceInput carries the per-team signals the confidence blend reads.
type ConfidenceInput struct {
	HomeLineup     models.LineupAdjustedStrength
	AwayLineup     models.LineupAdjustedStrength
	HomeVolatility float64
	AwayVolatility float64
}

// Result is the full calibration of one edge score.
type Result struct {
	Margin     float64
	HomeProb   float64
	AwayProb   float64
	Pick       Pick
	Confidence Confidence
}

// Calibrator converts edge scores into probabilities and picks.
type Calibrator struct {
	params Params
}

// New creates a calibrator.
func New(params Params) *Calibrator {
	return &Calibrator{params: params}
}

// Params returns the calibrator's constants.
func (c *Calibrator) Params() Params {
	return c.params
}

// Margin converts an edge score to projected home margin in points.
func (c *Calibrator) Margin(edge float64) float64 {
	return edge / c.params.EdgeToMargin
}

// WinProb converts a projected margin to a bounded home win probability.
func (c *Calibrator) WinProb(margin float64) float64 {
	raw := 1.0 / (1.0 + math.Exp(-margin/c.params.MarginProbScale))
	return math.Max(c.params.ProbMin, math.Min(c.params.ProbMax, raw))
}

// DecidePick picks by edge sign outside the tie band and by probability
// inside it. Home wins an exact probability tie.
func (c *Calibrator) DecidePick(edge, homeProb, awayProb float64) Pick {
	switch {
	case edge > c.params.TieBand:
		return Pick{Side: models.SideHome, Prob: homeProb}
	case edge < -c.params.TieBand:
		return Pick{Side: models.SideAway, Prob: awayProb}
	case homeProb >= awayProb:
		return Pick{Side: models.SideHome, Prob: homeProb}
	default:
		return Pick{Side: models.SideAway, Prob: awayProb}
	}
}

// Confidence blends lineup certainty, volatility, rating gap and availability
// tier into a score in [0,1]. The bucket is capped at MEDIUM when either
// team's availability confidence is LOW.
func (c *Calibrator) Confidence(in ConfidenceInput) Confidence {
	injuryPenalty := math.Min(1, in.HomeLineup.ConfidencePenalty+in.AwayLineup.ConfidencePenalty)
	avgVolatility := (clampUnit(in.HomeVolatility) + clampUnit(in.AwayVolatility)) / 2
	edgeFactor := math.Min(1, math.Abs(in.HomeLineup.AdjustedNetRating-in.AwayLineup.AdjustedNetRating)/edgeRatingScale)
	availPenalty := (tierPenalty(in.HomeLineup.AvailabilityConfidence) + tierPenalty(in.AwayLineup.AvailabilityConfidence)) / 2

	score := injuryWeight*(1-injuryPenalty) +
		volatilityWeight*(1-avgVolatility) +
		edgeWeight*edgeFactor +
		availabilityWeight*(1-availPenalty)
	score = clampUnit(score)

	label := models.ConfidenceLow
	switch {
	case score >= highThreshold:
		label = models.ConfidenceHigh
	case score >= mediumThreshold:
		label = models.ConfidenceMedium
	}
	if label == models.ConfidenceHigh &&
		(in.HomeLineup.AvailabilityConfidence == models.ConfidenceLow || in.AwayLineup.AvailabilityConfidence == models.ConfidenceLow) {
		label = models.ConfidenceMedium
	}

	return Confidence{
		Score: score,
		Label: label,
		Pct:   int(math.Round(score * 100)),
	}
}

// Calibrate runs the full edge-to-pick mapping.
func (c *Calibrator) Calibrate(edge float64, in ConfidenceInput) Result {
	margin := c.Margin(edge)
	homeProb := c.WinProb(margin)
	awayProb := 1 - homeProb
	return Result{
		Margin:     margin,
		HomeProb:   homeProb,
		AwayProb:   awayProb,
		Pick:       c.DecidePick(edge, homeProb, awayProb),
		Confidence: c.Confidence(in),
	}
}

func tierPenalty(tier models.AvailabilityConfidence) float64 {
	switch tier {
	case models.ConfidenceHigh:
		return 0
	case models.ConfidenceMedium:
		return 0.5
	default:
		return 1
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

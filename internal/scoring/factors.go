package scoring

import (
	"fmt"
	"math"

	"github.com/yourusername/hoops-edge/internal/models"
)

// Normalization scales: a difference of one scale unit maps to a full ±1.
const (
	scaleNetRating    = 10.0
	scaleOffVsDef     = 10.0
	scaleTurnover     = 4.0
	scaleShotQuality  = 6.0
	scaleThreePoint   = 6.0
	scaleFTRate       = 0.08
	scaleRebounding   = 6.0
	scalePace         = 6.0
	scaleBench        = 5.0
	scaleRest         = 2.0
	scaleRim          = 6.0
	scalePerimeter    = 6.0
	scaleAvailability = 0.25
	scaleMatchup      = 4.0
	scaleLateGame     = 5.0
	scaleFouls        = 4.0
	scaleVariance     = 0.10

	benchNetShare      = 0.3
	lateGameOffShare   = 0.5
	threePointRateMult = 20.0

	starModelShare    = 0.5
	availabilityShare = 0.5
	replacementShare  = 0.25
)

type factorFunc func(in *factorInputs) (float64, string)

type factorDef struct {
	name    string
	display string
	calc    factorFunc
}

// factorInputs is the guarded, copied view of a matchup the factors read from.
type factorInputs struct {
	home        models.TeamBaselineStrength
	away        models.TeamBaselineStrength
	homeLineup  models.LineupAdjustedStrength
	awayLineup  models.LineupAdjustedStrength
	star        models.StarImpactResult
	replacement models.ReplacementResult
}

var factorDefs = []factorDef{
	{FactorNetRating, "Net Rating", netRating},
	{FactorStarAvailability, "Star Availability", starAvailability},
	{FactorOffVsDef, "Off vs Def Efficiency", offVsDef},
	{FactorTurnoverDiff, "Turnover Differential", turnoverDiff},
	{FactorShotQuality, "Shot Quality", shotQuality},
	{FactorThreePointEdge, "3P Edge", threePointEdge},
	{FactorFreeThrowRate, "Free Throw Rate", freeThrowRate},
	{FactorRebounding, "Rebounding", rebounding},
	{FactorHomeCourt, "Home Court", homeCourt},
	{FactorRestFatigue, "Rest/Fatigue", restFatigue},
	{FactorRimProtection, "Rim Protection", rimProtection},
	{FactorPerimeterDefense, "Perimeter Defense", perimeterDefense},
	{FactorMatchupFit, "Matchup Fit", matchupFit},
	{FactorBenchDepth, "Bench Depth", benchDepth},
	{FactorPaceControl, "Pace Control", paceControl},
	{FactorLateGameCreation, "Late Game Creation", lateGameCreation},
	{FactorCoaching, "Coaching", neutral},
	{FactorFoulTroubleRisk, "Foul Trouble Risk", foulTroubleRisk},
	{FactorShootingVariance, "Shooting Variance", shootingVariance},
	{FactorMotivation, "Motivation", neutral},
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

func netRating(in *factorInputs) (float64, string) {
	h, a := in.homeLineup.AdjustedNetRating, in.awayLineup.AdjustedNetRating
	return clampUnit((h - a) / scaleNetRating), fmt.Sprintf("Home:%+.1f Away:%+.1f", h, a)
}

// starAvailability blends the dampened star model with the lineup availability
// gap, then folds in the replacement edge.
func starAvailability(in *factorInputs) (float64, string) {
	hAvail, aAvail := in.homeLineup.AvailabilityFraction, in.awayLineup.AvailabilityFraction
	availValue := clampUnit((hAvail - aAvail) / scaleAvailability)
	v := starModelShare*in.star.SignedValue + availabilityShare*availValue
	v = clampUnit(v + replacementShare*in.replacement.SignedValue)
	return v, fmt.Sprintf("Star:%+.2f Home:%.2f Away:%.2f Repl:%+.2f",
		in.star.SignedValue, hAvail, aAvail, in.replacement.SignedValue)
}

func offVsDef(in *factorInputs) (float64, string) {
	h, a := in.home, in.away
	delta := (h.OffRating - a.DefRating) - (a.OffRating - h.DefRating)
	return clampUnit(delta / scaleOffVsDef), fmt.Sprintf("HomeOff:%.1f AwayDef:%.1f | AwayOff:%.1f HomeDef:%.1f",
		h.OffRating, a.DefRating, a.OffRating, h.DefRating)
}

func turnoverDiff(in *factorInputs) (float64, string) {
	h, a := in.home.TOVPct, in.away.TOVPct
	return clampUnit((a - h) / scaleTurnover), fmt.Sprintf("HomeTOV%%:%.1f AwayTOV%%:%.1f", h, a)
}

func shotQuality(in *factorInputs) (float64, string) {
	h, a := in.home.EFGPct, in.away.EFGPct
	return clampUnit((h - a) * 100 / scaleShotQuality), fmt.Sprintf("HomeEFG:%.3f AwayEFG:%.3f", h, a)
}

func threePointEdge(in *factorInputs) (float64, string) {
	h, a := in.home, in.away
	hScore := h.FG3Pct*100 + h.FG3ARate*threePointRateMult
	aScore := a.FG3Pct*100 + a.FG3ARate*threePointRateMult
	return clampUnit((hScore - aScore) / scaleThreePoint), fmt.Sprintf("Home3P%%:%.3f Away3P%%:%.3f", h.FG3Pct, a.FG3Pct)
}

func freeThrowRate(in *factorInputs) (float64, string) {
	h, a := in.home.FTRate, in.away.FTRate
	return clampUnit((h - a) / scaleFTRate), fmt.Sprintf("HomeFTr:%.3f AwayFTr:%.3f", h, a)
}

func rebounding(in *factorInputs) (float64, string) {
	h, a := in.home.RebPct, in.away.RebPct
	return clampUnit((h - a) / scaleRebounding), fmt.Sprintf("HomeREB%%:%.1f AwayREB%%:%.1f", h, a)
}

func homeCourt(*factorInputs) (float64, string) {
	return 1, "Home team always +1"
}

func restFatigue(in *factorInputs) (float64, string) {
	h, a := in.home.RestDays, in.away.RestDays
	return clampUnit(float64(h-a) / scaleRest), fmt.Sprintf("HomeRest:%dd AwayRest:%dd", h, a)
}

func rimProtection(in *factorInputs) (float64, string) {
	h, a := in.home.DefRating, in.away.DefRating
	return clampUnit((a - h) / scaleRim), fmt.Sprintf("HomeDEF:%.1f AwayDEF:%.1f (proxy)", h, a)
}

func perimeterDefense(in *factorInputs) (float64, string) {
	h, a := in.home.OppFG3Pct, in.away.OppFG3Pct
	return clampUnit((a - h) * 100 / scalePerimeter), fmt.Sprintf("HomeOpp3P%%:%.3f AwayOpp3P%%:%.3f", h, a)
}

// matchupFit favors strong rebounding against high-volume three-point shooting.
func matchupFit(in *factorInputs) (float64, string) {
	h, a := in.home, in.away
	delta := h.RebPct*a.FG3ARate - a.RebPct*h.FG3ARate
	return clampUnit(delta / scaleMatchup), "Style proxy - REB vs 3PAr"
}

func benchDepth(in *factorInputs) (float64, string) {
	delta := (in.home.NetRating - in.away.NetRating) * benchNetShare
	return clampUnit(delta / scaleBench), "Net rating proxy (scaled)"
}

func paceControl(in *factorInputs) (float64, string) {
	h, a := in.home.Pace, in.away.Pace
	return clampUnit((h - a) / scalePace), fmt.Sprintf("HomePace:%.1f AwayPace:%.1f", h, a)
}

func lateGameCreation(in *factorInputs) (float64, string) {
	delta := (in.home.OffRating - in.away.OffRating) * lateGameOffShare
	return clampUnit(delta / scaleLateGame), "Off rating proxy"
}

func foulTroubleRisk(in *factorInputs) (float64, string) {
	h, a := in.home.PFPerGame, in.away.PFPerGame
	return clampUnit((a - h) / scaleFouls), fmt.Sprintf("HomePF:%.1f AwayPF:%.1f", h, a)
}

// shootingVariance gives the edge to the less three-point-dependent team.
func shootingVariance(in *factorInputs) (float64, string) {
	h, a := in.home.FG3ARate, in.away.FG3ARate
	return clampUnit((a - h) / scaleVariance), fmt.Sprintf("Home3PAr:%.3f Away3PAr:%.3f", h, a)
}

func neutral(*factorInputs) (float64, string) {
	return 0, "Neutral (no data)"
}

package scoring

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
)

// Matchup is everything the factor pass reads for one game.
type Matchup struct {
	GameID      string
	Home        *models.TeamBaselineStrength
	Away        *models.TeamBaselineStrength
	HomeLineup  models.LineupAdjustedStrength
	AwayLineup  models.LineupAdjustedStrength
	Star        models.StarImpactResult
	Replacement models.ReplacementResult
	// SuppliedHome and SuppliedAway are the baselines as the caller received
	// them. When both are set the aliasing check runs on them instead.
	SuppliedHome *models.TeamBaselineStrength
	SuppliedAway *models.TeamBaselineStrength
}

// Result is the output of one factor pass.
type Result struct {
	Factors   []models.FactorResult
	EdgeScore float64
}

// Engine scores matchups with a fixed, validated weight table.
type Engine struct {
	weights Weights
	log     *logger.ScoringLogger
}

// NewEngine creates a scoring engine. The weights must sum to 100.
func NewEngine(weights Weights, log *logger.ScoringLogger) (*Engine, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewScoringLogger(logrus.New())
	}
	return &Engine{weights: weights, log: log}, nil
}

// Weights returns a copy of the engine's weight table.
func (e *Engine) Weights() Weights {
	out := make(Weights, len(e.weights))
	for k, v := range e.weights {
		out[k] = v
	}
	return out
}

// Score runs every factor and sums the contributions. Inputs are always read
// from private copies; aliasing is recorded on trace, logged and counted.
func (e *Engine) Score(m Matchup, trace *models.ScoringTrace) (Result, error) {
	if m.Home == nil || m.Away == nil {
		return Result{}, fmt.Errorf("score game %s: %w", m.GameID, models.ErrMissingBaseline)
	}

	checkHome, checkAway := m.Home, m.Away
	if m.SuppliedHome != nil && m.SuppliedAway != nil {
		checkHome, checkAway = m.SuppliedHome, m.SuppliedAway
	}
	guard := CheckAliasing(checkHome, checkAway)
	in := &factorInputs{
		home:        *m.Home,
		away:        *m.Away,
		homeLineup:  m.HomeLineup,
		awayLineup:  m.AwayLineup,
		star:        m.Star,
		replacement: m.Replacement,
	}
	if trace != nil {
		trace.IdenticalFields = guard.IdenticalFields
		trace.ComparedFields = guard.ComparedFields
	}
	if guard.Aliased() {
		e.recordAliasing(m, guard, trace)
	}

	factors := make([]models.FactorResult, 0, len(factorDefs))
	var edge float64
	for _, def := range factorDefs {
		value, inputs := def.calc(in)
		weight := e.weights[def.name]
		contribution := float64(weight) * value
		edge += contribution
		factors = append(factors, models.FactorResult{
			Name:         def.name,
			DisplayName:  def.display,
			Weight:       weight,
			SignedValue:  value,
			Contribution: contribution,
			InputsUsed:   inputs,
		})
	}

	return Result{Factors: factors, EdgeScore: edge}, nil
}

func (e *Engine) recordAliasing(m Matchup, guard GuardResult, trace *models.ScoringTrace) {
	trace.AddAnomaly(guard.Kind, m.Home.Team,
		"home %s and away %s inputs aliased (%d/%d identical fields)",
		m.Home.Team, m.Away.Team, guard.IdenticalFields, guard.ComparedFields)
	if trace != nil {
		trace.InputsCopied = true
	}
	metrics.RecordAliasingAnomaly(string(guard.Kind))
	e.log.LogAliasingAnomaly(m.GameID, string(guard.Kind), m.Home.Team, guard.IdenticalFields, guard.ComparedFields)
}

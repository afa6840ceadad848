package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// predictionPrecision is the number of decimal places stored for numeric columns.
const predictionPrecision = 4

// Prediction is the persisted form of a GameScore
type Prediction struct {
	ID              uuid.UUID              `db:"id" json:"id" validate:"required"`
	RunID           uuid.UUID              `db:"run_id" json:"run_id" validate:"required"`
	GameID          string                 `db:"game_id" json:"game_id" validate:"required"`
	GameDate        time.Time              `db:"game_date" json:"game_date" validate:"required"`
	HomeTeam        string                 `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam        string                 `db:"away_team" json:"away_team" validate:"required"`
	PredictedWinner string                 `db:"predicted_winner" json:"predicted_winner"`
	PickSide        Side                   `db:"pick_side" json:"pick_side"`
	EdgeScore       decimal.Decimal        `db:"edge_score" json:"edge_score"`
	ProjectedMargin decimal.Decimal        `db:"projected_margin" json:"projected_margin"`
	HomeWinProb     decimal.Decimal        `db:"home_win_prob" json:"home_win_prob"`
	PickProb        decimal.Decimal        `db:"pick_prob" json:"pick_prob"`
	ConfidenceLabel AvailabilityConfidence `db:"confidence_label" json:"confidence_label"`
	ConfidencePct   int                    `db:"confidence_pct" json:"confidence_pct" validate:"gte=0,lte=100"`
	DataConfidence  DataConfidence         `db:"data_confidence" json:"data_confidence"`
	Factors         json.RawMessage        `db:"factors" json:"factors"`
	Trace           json.RawMessage        `db:"trace" json:"trace,omitempty"`
	ScoredAt        time.Time              `db:"scored_at" json:"scored_at"`
}

// NewPrediction flattens a GameScore into its persisted form, rounding numeric
// fields and encoding factors and trace as JSON.
func NewPrediction(runID uuid.UUID, g *GameScore) (*Prediction, error) {
	factors, err := json.Marshal(g.Factors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode factors for %s: %w", g.GameID, err)
	}
	var trace json.RawMessage
	if g.Trace != nil {
		if trace, err = json.Marshal(g.Trace); err != nil {
			return nil, fmt.Errorf("failed to encode trace for %s: %w", g.GameID, err)
		}
	}

	return &Prediction{
		ID:              g.ID,
		RunID:           runID,
		GameID:          g.GameID,
		GameDate:        g.GameDate,
		HomeTeam:        g.HomeTeam,
		AwayTeam:        g.AwayTeam,
		PredictedWinner: g.PredictedWinner,
		PickSide:        g.PickSide,
		EdgeScore:       round(g.EdgeScoreTotal),
		ProjectedMargin: round(g.ProjectedMargin),
		HomeWinProb:     round(g.HomeWinProb),
		PickProb:        round(g.PickProb),
		ConfidenceLabel: g.ConfidenceLabel,
		ConfidencePct:   g.ConfidencePct,
		DataConfidence:  g.DataConfidence,
		Factors:         factors,
		Trace:           trace,
		ScoredAt:        g.ScoredAt,
	}, nil
}

// GetFactor retrieves one factor from the Factors JSON. A missing factor returns nil.
func (p *Prediction) GetFactor(name string) (*FactorResult, error) {
	if p.Factors == nil {
		return nil, nil
	}

	var factors []FactorResult
	if err := json.Unmarshal(p.Factors, &factors); err != nil {
		return nil, err
	}
	for i := range factors {
		if factors[i].Name == name {
			return &factors[i], nil
		}
	}
	return nil, nil
}

// MeetsThreshold checks if the pick probability meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.PickProb.GreaterThanOrEqual(decimal.NewFromFloat(threshold))
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(predictionPrecision)
}

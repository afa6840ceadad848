package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/hoops-edge/internal/database"
	"github.com/yourusername/hoops-edge/internal/models"
)

var predictionColumns = []string{
	"id", "run_id", "game_id", "game_date", "home_team", "away_team",
	"predicted_winner", "pick_side", "edge_score", "projected_margin",
	"home_win_prob", "pick_prob", "confidence_label", "confidence_pct",
	"data_confidence", "factors", "trace", "scored_at",
}

const selectPredictions = `
	SELECT id, run_id, game_id, game_date, home_team, away_team,
	       predicted_winner, pick_side, edge_score, projected_margin,
	       home_win_prob, pick_prob, confidence_label, confidence_pct,
	       data_confidence, factors, trace, scored_at
	FROM predictions
`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// SaveBatch persists one slate's scores using COPY
func (r *PostgresPredictionRepository) SaveBatch(ctx context.Context, runID uuid.UUID, scores []*models.GameScore) (int, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	rows, err := PredictionRows(runID, scores)
	if err != nil {
		return 0, err
	}

	count, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"predictions"},
		predictionColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert predictions: %w", err)
	}

	if count != int64(len(scores)) {
		return int(count), fmt.Errorf("inserted %d rows, expected %d", count, len(scores))
	}

	return int(count), nil
}

// GetByDate retrieves every prediction for a game date, most recent run first
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	query := selectPredictions + `
		WHERE game_date = $1
		ORDER BY scored_at DESC, game_id ASC
	`
	return r.query(ctx, query, date.Format("2006-01-02"))
}

// GetByGameID retrieves every stored prediction for one game
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, gameID string) ([]*models.Prediction, error) {
	query := selectPredictions + `
		WHERE game_id = $1
		ORDER BY scored_at DESC
	`
	predictions, err := r.query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrNotFound)
	}
	return predictions, nil
}

// DeleteByRun removes every prediction written by one run
func (r *PostgresPredictionRepository) DeleteByRun(ctx context.Context, runID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM predictions WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresPredictionRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Prediction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		err := rows.Scan(
			&p.ID, &p.RunID, &p.GameID, &p.GameDate, &p.HomeTeam, &p.AwayTeam,
			&p.PredictedWinner, &p.PickSide, &p.EdgeScore, &p.ProjectedMargin,
			&p.HomeWinProb, &p.PickProb, &p.ConfidenceLabel, &p.ConfidencePct,
			&p.DataConfidence, &p.Factors, &p.Trace, &p.ScoredAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

// PredictionRows flattens scores into COPY rows in predictionColumns order
func PredictionRows(runID uuid.UUID, scores []*models.GameScore) ([][]interface{}, error) {
	rows := make([][]interface{}, 0, len(scores))
	for _, s := range scores {
		p, err := models.NewPrediction(runID, s)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []interface{}{
			p.ID, p.RunID, p.GameID, p.GameDate, p.HomeTeam, p.AwayTeam,
			p.PredictedWinner, string(p.PickSide), p.EdgeScore, p.ProjectedMargin,
			p.HomeWinProb, p.PickProb, string(p.ConfidenceLabel), p.ConfidencePct,
			string(p.DataConfidence), []byte(p.Factors), nullableJSON(p.Trace), p.ScoredAt,
		})
	}
	return rows, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

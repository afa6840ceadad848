package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/hoops-edge/internal/models"
)

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	SaveBatch(ctx context.Context, runID uuid.UUID, scores []*models.GameScore) (int, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)
	GetByGameID(ctx context.Context, gameID string) ([]*models.Prediction, error)
	DeleteByRun(ctx context.Context, runID uuid.UUID) error
}

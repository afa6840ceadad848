package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hoops-edge/internal/datasource"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/models"
)

// MockPredictionRepository mocks the prediction repository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) SaveBatch(ctx context.Context, runID uuid.UUID, scores []*models.GameScore) (int, error) {
	args := m.Called(ctx, runID, scores)
	return args.Int(0), args.Error(1)
}

func (m *MockPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetByGameID(ctx context.Context, gameID string) ([]*models.Prediction, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) DeleteByRun(ctx context.Context, runID uuid.UUID) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

func testSlate() *Slate {
	return &Slate{
		Date: gameDate,
		Games: []GameSpec{
			{GameID: "g3", Home: "WAS", Away: "BOS"},
			{GameID: "g1", Home: "BOS", Away: "WAS"},
			{GameID: "g2", Home: "MIA", Away: "ORL"},
			{GameID: "g4", Home: "NYK", Away: "DET"},
		},
		Baselines: map[string]*models.TeamBaselineStrength{
			"BOS": strongBaseline("BOS"),
			"WAS": weakBaseline("WAS"),
			"MIA": strongBaseline("MIA"),
			"NYK": strongBaseline("NYK"),
			"DET": weakBaseline("DET"),
		},
		Players: map[string][]models.PlayerStats{
			"BOS": roster("BOS"),
			"WAS": roster("WAS"),
			"NYK": roster("NYK"),
			"DET": roster("DET"),
		},
		Absences: fusion.Inputs{Date: gameDate},
		Coverage: lineup.Coverage{InjuryReportAvailable: true, InactivesAvailable: true},
	}
}

func newTestSlateService(t *testing.T, opts ...SlateOption) *SlateService {
	t.Helper()
	return NewSlateService(newTestScorer(t), nil, opts...)
}

func TestScoreSlateSkipsMissingBaseline(t *testing.T) {
	svc := newTestSlateService(t)

	result, err := svc.ScoreSlate(context.Background(), testSlate())
	require.NoError(t, err)

	assert.Len(t, result.Games, 3)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "g2", result.Skipped[0].GameID)
	assert.Equal(t, "ORL @ MIA", result.Skipped[0].Matchup)
	assert.Equal(t, "missing_baseline", result.Skipped[0].Reason)
	assert.NotEqual(t, uuid.Nil, result.RunID)
}

func TestScoreSlateSortOrder(t *testing.T) {
	svc := newTestSlateService(t, WithWorkers(2))

	result, err := svc.ScoreSlate(context.Background(), testSlate())
	require.NoError(t, err)

	for i := 1; i < len(result.Games); i++ {
		prev, cur := result.Games[i-1], result.Games[i]
		if prev.ConfidenceLabel.Rank() != cur.ConfidenceLabel.Rank() {
			assert.Greater(t, prev.ConfidenceLabel.Rank(), cur.ConfidenceLabel.Rank())
			continue
		}
		assert.GreaterOrEqual(t, abs(prev.EdgeScoreTotal), abs(cur.EdgeScoreTotal))
	}
}

func TestScoreSlateIsDeterministic(t *testing.T) {
	svc := newTestSlateService(t, WithWorkers(4))

	first, err := svc.ScoreSlate(context.Background(), testSlate())
	require.NoError(t, err)
	second, err := svc.ScoreSlate(context.Background(), testSlate())
	require.NoError(t, err)

	require.Equal(t, len(first.Games), len(second.Games))
	for i := range first.Games {
		assert.Equal(t, first.Games[i].GameID, second.Games[i].GameID)
		assert.Equal(t, first.Games[i].EdgeScoreTotal, second.Games[i].EdgeScoreTotal)
	}
}

func TestScoreSlateRecordsFusionCounts(t *testing.T) {
	svc := newTestSlateService(t)
	slate := testSlate()
	slate.Absences.Inactives = []models.AbsenceRecord{
		{Team: "BOS", Player: "BOS Starter 2", Source: models.SourceInactives},
	}

	result, err := svc.ScoreSlate(context.Background(), slate)
	require.NoError(t, err)

	for _, g := range result.Games {
		assert.Equal(t, 1, g.Trace.FusionSourceCounts[models.SourceInactives], g.GameID)
	}
	assert.Equal(t, 1, result.Fusion[models.SourceInactives].Added)

	// each game owns its counts
	result.Games[0].Trace.FusionSourceCounts[models.SourceInactives] = 99
	assert.Equal(t, 1, result.Games[1].Trace.FusionSourceCounts[models.SourceInactives])
}

func TestScoreSlateEmpty(t *testing.T) {
	svc := newTestSlateService(t)

	_, err := svc.ScoreSlate(context.Background(), &Slate{Date: gameDate})
	assert.ErrorIs(t, err, models.ErrEmptySlate)
	_, err = svc.ScoreSlate(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrEmptySlate)
}

func TestScoreSlateCancelled(t *testing.T) {
	svc := newTestSlateService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ScoreSlate(ctx, testSlate())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPersists(t *testing.T) {
	repo := new(MockPredictionRepository)
	repo.On("SaveBatch", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]*models.GameScore")).Return(3, nil)
	svc := newTestSlateService(t, WithRepository(repo, logger.NewAuditLogger(logrus.New())))

	result, err := svc.Run(context.Background(), testSlate(), true)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Persisted)
	repo.AssertExpectations(t)
	saved := repo.Calls[0].Arguments.Get(2).([]*models.GameScore)
	assert.Len(t, saved, 3)
	assert.Equal(t, result.RunID, repo.Calls[0].Arguments.Get(1))
}

func TestRunWithoutPersist(t *testing.T) {
	repo := new(MockPredictionRepository)
	svc := newTestSlateService(t, WithRepository(repo, nil))

	result, err := svc.Run(context.Background(), testSlate(), false)
	require.NoError(t, err)
	assert.Zero(t, result.Persisted)
	repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPersistErrors(t *testing.T) {
	t.Run("no repository", func(t *testing.T) {
		svc := newTestSlateService(t)
		result, err := svc.Run(context.Background(), testSlate(), true)
		require.Error(t, err)
		assert.NotNil(t, result, "scores are still returned")
	})

	t.Run("save fails", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		repo.On("SaveBatch", mock.Anything, mock.Anything, mock.Anything).Return(0, errors.New("connection refused"))
		svc := newTestSlateService(t, WithRepository(repo, nil))

		_, err := svc.Run(context.Background(), testSlate(), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestRefreshUsesLiveAbsences(t *testing.T) {
	sources := []datasource.AbsenceSource{
		&fakeSource{name: "inactives", kind: models.SourceInactives, enabled: true, batch: recordBatch(models.SourceInactives,
			models.AbsenceRecord{Team: "BOS", Player: "BOS Starter 1", Source: models.SourceInactives, CanonicalStatus: models.StatusOut},
		)},
	}
	ingestion := NewIngestionService(sources, nil, nil)
	svc := newTestSlateService(t, WithIngestion(ingestion))

	slate := testSlate()
	result, err := svc.Refresh(context.Background(), slate, false)
	require.NoError(t, err)

	for _, g := range result.Games {
		if g.HomeTeam == "BOS" {
			assert.Contains(t, g.HomeLineup.StarsOut, "BOS Starter 1")
		}
	}
	assert.True(t, slate.Coverage.InjuryReportAvailable, "caller slate is left untouched")
	assert.Empty(t, slate.Absences.Inactives)
}

func TestSortScoresTieBreaksByGameID(t *testing.T) {
	scores := []*models.GameScore{
		{GameID: "b", ConfidenceLabel: models.ConfidenceMedium, EdgeScoreTotal: 5},
		{GameID: "a", ConfidenceLabel: models.ConfidenceMedium, EdgeScoreTotal: -5},
		{GameID: "c", ConfidenceLabel: models.ConfidenceHigh, EdgeScoreTotal: 1},
		{GameID: "d", ConfidenceLabel: models.ConfidenceLow, EdgeScoreTotal: 30},
		{GameID: "e", ConfidenceLabel: models.ConfidenceMedium, EdgeScoreTotal: 9},
	}
	SortScores(scores)

	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.GameID
	}
	assert.Equal(t, []string{"c", "e", "a", "b", "d"}, ids)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/repository"
	"github.com/yourusername/hoops-edge/internal/star"
	"github.com/yourusername/hoops-edge/internal/tracing"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// GameSpec identifies one scheduled game on a slate.
type GameSpec struct {
	GameID    string                `json:"game_id"`
	Home      string                `json:"home"`
	Away      string                `json:"away"`
	Dampening star.DampeningContext `json:"dampening,omitempty"`
}

// Slate is one day's worth of scoring inputs.
type Slate struct {
	Date      time.Time
	Games     []GameSpec
	Baselines map[string]*models.TeamBaselineStrength
	Players   map[string][]models.PlayerStats
	Absences  fusion.Inputs
	Coverage  lineup.Coverage
}

// SkippedGame records a game that could not be scored.
type SkippedGame struct {
	GameID  string `json:"game_id"`
	Matchup string `json:"matchup"`
	Reason  string `json:"reason"`
}

// SlateResult is the sorted output of one slate run.
type SlateResult struct {
	RunID     uuid.UUID           `json:"run_id"`
	Date      time.Time           `json:"date"`
	Games     []*models.GameScore `json:"games"`
	Skipped   []SkippedGame       `json:"skipped,omitempty"`
	Fusion    fusion.Report       `json:"-"`
	Persisted int                 `json:"persisted"`
	Duration  time.Duration       `json:"duration"`
}

// SlateService scores every game on a slate in parallel and returns them in a
// deterministic order.
type SlateService struct {
	scorer    *GameScorer
	ingestion *IngestionService
	repo      repository.PredictionRepository
	audit     *logger.AuditLogger
	logger    *logger.ScoringLogger
	workers   int
}

// SlateOption configures a SlateService
type SlateOption func(*SlateService)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) SlateOption {
	return func(s *SlateService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRepository enables persistence of scored games.
func WithRepository(repo repository.PredictionRepository, audit *logger.AuditLogger) SlateOption {
	return func(s *SlateService) {
		s.repo = repo
		s.audit = audit
	}
}

// WithIngestion lets Refresh pull live absences before scoring.
func WithIngestion(ingestion *IngestionService) SlateOption {
	return func(s *SlateService) {
		s.ingestion = ingestion
	}
}

// NewSlateService creates a slate service around scorer.
func NewSlateService(scorer *GameScorer, log *logger.ScoringLogger, opts ...SlateOption) *SlateService {
	if log == nil {
		log = logger.NewScoringLogger(logrus.StandardLogger())
	}
	s := &SlateService{
		scorer:  scorer,
		logger:  log,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo != nil && s.audit == nil {
		s.audit = logger.NewAuditLogger(logrus.StandardLogger())
	}
	return s
}

// ScoreSlate fuses the slate's absences once and scores every game against the
// result. Games with a missing baseline are skipped and counted; they never
// fail the slate.
func (s *SlateService) ScoreSlate(ctx context.Context, slate *Slate) (*SlateResult, error) {
	start := time.Now()
	if slate == nil || len(slate.Games) == 0 {
		metrics.RecordSlateRun("empty", 0, time.Since(start).Seconds())
		return nil, models.ErrEmptySlate
	}

	table, report := fusion.Fuse(slate.Absences)
	resolver := lineup.NewResolver(table, slate.Absences.Inactives, slate.Coverage)
	sourceCounts := table.SourceCounts()
	if s.ingestion != nil {
		s.ingestion.logger.LogFusionReport(slate.Date.Format(models.DateLayout), table.Len(), report.String())
	}

	type outcome struct {
		score *models.GameScore
		skip  *SkippedGame
	}
	outcomes := make([]outcome, len(slate.Games))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, spec := range slate.Games {
		i, spec := i, spec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tctx, end := tracing.StartSubsegment(gctx, "score-game")
			tracing.AddAnnotation(tctx, "game_id", spec.GameID)
			in := s.gameInput(slate, spec)
			in.SourceCounts = sourceCounts
			score, err := s.scorer.ScoreGame(in, resolver)
			end(err)
			if err != nil {
				reason := skipReason(err)
				matchup := fusion.TeamKey(spec.Away) + " @ " + fusion.TeamKey(spec.Home)
				metrics.RecordGameSkipped(reason)
				s.logger.LogGameSkipped(spec.GameID, matchup, err.Error())
				outcomes[i] = outcome{skip: &SkippedGame{GameID: spec.GameID, Matchup: matchup, Reason: reason}}
				return nil
			}
			outcomes[i] = outcome{score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordSlateRun("cancelled", 0, time.Since(start).Seconds())
		return nil, fmt.Errorf("slate %s cancelled: %w", slate.Date.Format(models.DateLayout), err)
	}

	result := &SlateResult{
		RunID:  uuid.New(),
		Date:   slate.Date,
		Games:  make([]*models.GameScore, 0, len(outcomes)),
		Fusion: report,
	}
	for _, o := range outcomes {
		switch {
		case o.score != nil:
			result.Games = append(result.Games, o.score)
		case o.skip != nil:
			result.Skipped = append(result.Skipped, *o.skip)
		}
	}
	SortScores(result.Games)

	result.Duration = time.Since(start)
	metrics.RecordSlateRun("success", len(result.Games), result.Duration.Seconds())
	s.logger.LogSlateCompleted(result.RunID.String(), slate.Date.Format(models.DateLayout),
		len(result.Games), len(result.Skipped), float64(result.Duration.Milliseconds()))

	return result, nil
}

// Run scores the slate and, when persist is set and a repository is
// configured, saves the scored games.
func (s *SlateService) Run(ctx context.Context, slate *Slate, persist bool) (*SlateResult, error) {
	result, err := s.ScoreSlate(ctx, slate)
	if err != nil {
		return nil, err
	}
	if !persist {
		return result, nil
	}
	if s.repo == nil {
		return result, fmt.Errorf("persistence requested but no repository is configured")
	}

	n, err := s.repo.SaveBatch(ctx, result.RunID, result.Games)
	if err != nil {
		return result, fmt.Errorf("failed to persist slate %s: %w", result.RunID, err)
	}
	result.Persisted = n
	metrics.RecordPredictionsPersisted(n)
	s.audit.LogPredictionsPersisted(result.RunID.String(), result.Date, n)
	return result, nil
}

// Refresh replaces the slate's absences with a live collection, when an
// ingestion service is configured, then runs the slate.
func (s *SlateService) Refresh(ctx context.Context, slate *Slate, persist bool) (*SlateResult, error) {
	if slate == nil {
		return nil, models.ErrEmptySlate
	}
	if s.ingestion != nil && len(s.ingestion.Sources()) > 0 {
		absences, err := s.ingestion.CollectAbsences(ctx, slate.Date)
		if err != nil {
			return nil, err
		}
		refreshed := *slate
		refreshed.Absences = absences.Inputs
		refreshed.Coverage = absences.Coverage
		slate = &refreshed
	}
	return s.Run(ctx, slate, persist)
}

func (s *SlateService) gameInput(slate *Slate, spec GameSpec) GameInput {
	home, away := fusion.TeamKey(spec.Home), fusion.TeamKey(spec.Away)
	return GameInput{
		GameID:      spec.GameID,
		Date:        slate.Date,
		Home:        slate.Baselines[home],
		Away:        slate.Baselines[away],
		HomeTeam:    home,
		AwayTeam:    away,
		HomePlayers: slate.Players[home],
		AwayPlayers: slate.Players[away],
		Dampening:   spec.Dampening,
	}
}

// SortScores orders games by confidence bucket (HIGH first), then by edge
// magnitude descending, then by game id.
func SortScores(scores []*models.GameScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if ra, rb := a.ConfidenceLabel.Rank(), b.ConfidenceLabel.Rank(); ra != rb {
			return ra > rb
		}
		if ea, eb := math.Abs(a.EdgeScoreTotal), math.Abs(b.EdgeScoreTotal); ea != eb {
			return ea > eb
		}
		return a.GameID < b.GameID
	})
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingBaseline):
		return "missing_baseline"
	case errors.Is(err, models.ErrInvalidMatchup):
		return "invalid_matchup"
	default:
		return "scoring_error"
	}
}

func copyCounts(in map[models.AbsenceSource]int) map[models.AbsenceSource]int {
	out := make(map[models.AbsenceSource]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/calibration"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/scoring"
	"github.com/yourusername/hoops-edge/internal/star"
)

// GameInput is one game's raw inputs. Baselines are looked up by the caller;
// a nil baseline skips the game.
type GameInput struct {
	GameID      string
	Date        time.Time
	Home        *models.TeamBaselineStrength
	Away        *models.TeamBaselineStrength
	HomeTeam    string
	AwayTeam    string
	HomePlayers []models.PlayerStats
	AwayPlayers []models.PlayerStats
	Dampening   star.DampeningContext

	// SourceCounts is the slate's fused record count per absence source.
	SourceCounts map[models.AbsenceSource]int
}

// GameScorer runs the single-game pipeline: players, lineup, star model,
// replacement, factors and calibration.
type GameScorer struct {
	engine     *scoring.Engine
	starModel  *star.Model
	calibrator *calibration.Calibrator
	ingestion  *IngestionService
	logger     *logger.ScoringLogger
}

// NewGameScorer creates a game scorer. A nil ingestion service gets one with
// no sources, which is enough to prepare player inputs.
func NewGameScorer(
	engine *scoring.Engine,
	starModel *star.Model,
	calibrator *calibration.Calibrator,
	ingestion *IngestionService,
	log *logger.ScoringLogger,
) *GameScorer {
	if starModel == nil {
		starModel = star.NewModel(star.DefaultParams())
	}
	if calibrator == nil {
		calibrator = calibration.New(calibration.DefaultParams())
	}
	if ingestion == nil {
		ingestion = NewIngestionService(nil, nil, nil)
	}
	if log == nil {
		log = logger.NewScoringLogger(logrus.StandardLogger())
	}
	return &GameScorer{
		engine:     engine,
		starModel:  starModel,
		calibrator: calibrator,
		ingestion:  ingestion,
		logger:     log,
	}
}

// ScoreGame scores one game against the fused absence picture in resolver.
// The returned GameScore owns its trace.
func (g *GameScorer) ScoreGame(in GameInput, resolver *lineup.Resolver) (*models.GameScore, error) {
	start := time.Now()

	homeTeam, awayTeam := teamName(in.HomeTeam, in.Home), teamName(in.AwayTeam, in.Away)
	if homeTeam == "" || awayTeam == "" {
		return nil, fmt.Errorf("game %s: %w", in.GameID, models.ErrInvalidMatchup)
	}
	if in.Home == nil {
		return nil, fmt.Errorf("game %s: %w for %s", in.GameID, models.ErrMissingBaseline, homeTeam)
	}
	if in.Away == nil {
		return nil, fmt.Errorf("game %s: %w for %s", in.GameID, models.ErrMissingBaseline, awayTeam)
	}

	// each side gets its own copy labelled by the game; the guard sees the originals
	home := in.Home.WithDefaults()
	home.Team = homeTeam
	away := in.Away.WithDefaults()
	away.Team = awayTeam

	trace := models.NewScoringTrace(in.GameID)
	if in.SourceCounts != nil {
		trace.FusionSourceCounts = copyCounts(in.SourceCounts)
	}
	dataConfidence := models.DataConfidenceFull

	homePlayers, homeFallback := g.ingestion.PreparePlayers(home.Team, in.HomePlayers)
	awayPlayers, awayFallback := g.ingestion.PreparePlayers(away.Team, in.AwayPlayers)
	trace.HomeFallback, trace.AwayFallback = homeFallback, awayFallback
	for _, fb := range []struct {
		team string
		used bool
	}{{home.Team, homeFallback}, {away.Team, awayFallback}} {
		if !fb.used {
			continue
		}
		dataConfidence = models.DataConfidenceDegraded
		trace.AddAnomaly(models.AnomalyFallbackPlayers, fb.team, "no player data for %s, using generic players", fb.team)
		g.logger.LogDegradedData(in.GameID, fb.team)
	}
	if dataConfidence == models.DataConfidenceDegraded {
		metrics.RecordDegradedGame()
	}

	homeLineup := lineup.Adjust(lineup.Input{Baseline: home, Players: homePlayers, IsHome: true}, resolver)
	awayLineup := lineup.Adjust(lineup.Input{Baseline: away, Players: awayPlayers, IsHome: false}, resolver)

	homeInput := star.TeamInput{Team: home.Team, Players: homePlayers}
	awayInput := star.TeamInput{Team: away.Team, Players: awayPlayers}
	starImpact := g.starModel.Compute(homeInput, awayInput, resolver, in.Dampening)
	replacement := star.Replacement(homeInput, awayInput, resolver)
	trace.DampeningReason = starImpact.DampeningReason
	trace.ReplacementActive = replacement.Active

	result, err := g.engine.Score(scoring.Matchup{
		GameID:      in.GameID,
		Home:         &home,
		Away:         &away,
		HomeLineup:   homeLineup,
		AwayLineup:   awayLineup,
		Star:         starImpact,
		Replacement:  replacement,
		SuppliedHome: in.Home,
		SuppliedAway: in.Away,
	}, trace)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", in.GameID, err)
	}

	cal := g.calibrator.Calibrate(result.EdgeScore, calibration.ConfidenceInput{
		HomeLineup:     homeLineup,
		AwayLineup:     awayLineup,
		HomeVolatility: home.Volatility,
		AwayVolatility: away.Volatility,
	})

	winner := home.Team
	if cal.Pick.Side == models.SideAway {
		winner = away.Team
	}

	score := &models.GameScore{
		ID:              uuid.New(),
		GameID:          in.GameID,
		GameDate:        in.Date,
		HomeTeam:        home.Team,
		AwayTeam:        away.Team,
		EdgeScoreTotal:  result.EdgeScore,
		ProjectedMargin: cal.Margin,
		HomeWinProb:     cal.HomeProb,
		AwayWinProb:     cal.AwayProb,
		PredictedWinner: winner,
		PickSide:        cal.Pick.Side,
		PickProb:        cal.Pick.Prob,
		ConfidenceLabel: cal.Confidence.Label,
		ConfidenceScore: cal.Confidence.Score,
		ConfidencePct:   cal.Confidence.Pct,
		Factors:         result.Factors,
		HomeLineup:      homeLineup,
		AwayLineup:      awayLineup,
		StarImpact:      starImpact,
		Replacement:     replacement,
		DataConfidence:  dataConfidence,
		Trace:           trace,
		ScoredAt:        time.Now().UTC(),
	}

	elapsed := time.Since(start)
	if replacement.Active {
		metrics.RecordReplacementActivation()
		g.logger.LogReplacementActive(in.GameID, replacement.Triggers, replacement.Edge)
	}
	metrics.RecordConfidenceScore(string(score.ConfidenceLabel), score.ConfidenceScore)
	metrics.RecordGameScored(string(score.ConfidenceLabel), score.EdgeScoreTotal, elapsed.Seconds())
	g.logger.LogGameScored(in.GameID, score.Matchup(), winner, score.EdgeScoreTotal, score.PickProb,
		string(score.ConfidenceLabel), float64(elapsed.Milliseconds()))

	return score, nil
}

func teamName(code string, baseline *models.TeamBaselineStrength) string {
	if key := fusion.TeamKey(code); key != "" {
		return key
	}
	if baseline != nil {
		return fusion.TeamKey(baseline.Team)
	}
	return ""
}

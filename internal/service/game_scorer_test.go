package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/scoring"
)

var gameDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func strongBaseline(team string) *models.TeamBaselineStrength {
	return &models.TeamBaselineStrength{
		Team:      team,
		NetRating: 9.8,
		OffRating: 121.5,
		DefRating: 111.7,
		Pace:      97.2,
		EFGPct:    0.571,
		TOVPct:    11.9,
		OREBPct:   27.1,
		RebPct:    51.2,
		FTRate:    0.221,
		FG3Pct:    0.372,
		FG3ARate:  0.529,
		OppEFGPct: 0.521,
		OppFG3Pct: 0.351,
		PFPerGame: 16.1,
		RestDays:  2,
	}
}

func weakBaseline(team string) *models.TeamBaselineStrength {
	return &models.TeamBaselineStrength{
		Team:      team,
		NetRating: -12.4,
		OffRating: 106.8,
		DefRating: 119.2,
		Pace:      101.9,
		EFGPct:    0.508,
		TOVPct:    14.8,
		OREBPct:   29.3,
		RebPct:    47.9,
		FTRate:    0.239,
		FG3Pct:    0.341,
		FG3ARate:  0.397,
		OppEFGPct: 0.569,
		OppFG3Pct: 0.379,
		PFPerGame: 19.4,
		RestDays:  1,
	}
}

// roster returns eight players with descending scoring; names are prefixed by team.
func roster(team string) []models.PlayerStats {
	players := make([]models.PlayerStats, 8)
	for i := range players {
		players[i] = models.PlayerStats{
			Name:           fmt.Sprintf("%s Starter %d", team, i+1),
			Team:           team,
			MinutesPerGame: 36 - float64(i)*3,
			PointsPerGame:  28 - float64(i)*3,
			AssistsPerGame: 6 - float64(i)*0.5,
			GamesPlayed:    40,
			HasMinutes:     true,
		}
	}
	return players
}

func completeResolver(in fusion.Inputs) *lineup.Resolver {
	table, _ := fusion.Fuse(in)
	return lineup.NewResolver(table, in.Inactives, lineup.Coverage{InjuryReportAvailable: true, InactivesAvailable: true})
}

func newTestScorer(t *testing.T) *GameScorer {
	t.Helper()
	engine, err := scoring.NewEngine(scoring.DefaultWeights(), nil)
	require.NoError(t, err)
	return NewGameScorer(engine, nil, nil, nil, nil)
}

func bosWasGame() GameInput {
	return GameInput{
		GameID:      "0022400601",
		Date:        gameDate,
		Home:        strongBaseline("BOS"),
		Away:        weakBaseline("WAS"),
		HomeTeam:    "BOS",
		AwayTeam:    "WAS",
		HomePlayers: roster("BOS"),
		AwayPlayers: roster("WAS"),
	}
}

func TestScoreGameFavoursStrongerHomeTeam(t *testing.T) {
	scorer := newTestScorer(t)

	score, err := scorer.ScoreGame(bosWasGame(), completeResolver(fusion.Inputs{Date: gameDate}))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, score.ID)
	assert.Equal(t, "0022400601", score.GameID)
	assert.Equal(t, gameDate, score.GameDate)
	assert.Equal(t, "WAS @ BOS", score.Matchup())
	assert.Len(t, score.Factors, len(scoring.FactorNames()))

	assert.Greater(t, score.EdgeScoreTotal, 0.0)
	assert.Greater(t, score.ProjectedMargin, 0.0)
	assert.Equal(t, models.SideHome, score.PickSide)
	assert.Equal(t, "BOS", score.PredictedWinner)
	assert.Equal(t, score.HomeWinProb, score.PickProb)
	assert.InDelta(t, 1.0, score.HomeWinProb+score.AwayWinProb, 1e-9)
	assert.LessOrEqual(t, score.HomeWinProb, 0.95)

	assert.Equal(t, models.DataConfidenceFull, score.DataConfidence)
	require.NotNil(t, score.Trace)
	assert.False(t, score.Trace.Critical())
	assert.Empty(t, score.Trace.Anomalies)
	assert.False(t, score.Trace.ReplacementActive)
	assert.Equal(t, models.ConfidenceHigh, score.HomeLineup.AvailabilityConfidence)
}

func TestScoreGameIsDeterministic(t *testing.T) {
	scorer := newTestScorer(t)
	resolver := completeResolver(fusion.Inputs{Date: gameDate})

	first, err := scorer.ScoreGame(bosWasGame(), resolver)
	require.NoError(t, err)
	second, err := scorer.ScoreGame(bosWasGame(), resolver)
	require.NoError(t, err)

	assert.Equal(t, first.EdgeScoreTotal, second.EdgeScoreTotal)
	assert.Equal(t, first.Factors, second.Factors)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestScoreGameMissingBaseline(t *testing.T) {
	scorer := newTestScorer(t)
	in := bosWasGame()
	in.Away = nil

	_, err := scorer.ScoreGame(in, completeResolver(fusion.Inputs{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingBaseline))
	assert.Contains(t, err.Error(), "WAS")
}

func TestScoreGameInvalidMatchup(t *testing.T) {
	scorer := newTestScorer(t)

	_, err := scorer.ScoreGame(GameInput{GameID: "g1"}, completeResolver(fusion.Inputs{}))
	assert.ErrorIs(t, err, models.ErrInvalidMatchup)
}

func TestScoreGameFallbackPlayersDegrade(t *testing.T) {
	scorer := newTestScorer(t)
	in := bosWasGame()
	in.AwayPlayers = nil

	score, err := scorer.ScoreGame(in, completeResolver(fusion.Inputs{}))
	require.NoError(t, err)

	assert.Equal(t, models.DataConfidenceDegraded, score.DataConfidence)
	assert.True(t, score.Trace.AwayFallback)
	assert.False(t, score.Trace.HomeFallback)
	assert.True(t, score.Trace.HasAnomaly(models.AnomalyFallbackPlayers))
	assert.Empty(t, score.AwayLineup.MissingPlayers)
	assert.Equal(t, 1.0, score.AwayLineup.AvailabilityFraction)
}

func TestScoreGameFallbackPlayersAvailableUnderPartialCoverage(t *testing.T) {
	scorer := newTestScorer(t)
	in := bosWasGame()
	in.HomePlayers, in.AwayPlayers = nil, nil

	table, _ := fusion.Fuse(fusion.Inputs{})
	resolver := lineup.NewResolver(table, nil, lineup.Coverage{InjuryReportAvailable: true})

	score, err := scorer.ScoreGame(in, resolver)
	require.NoError(t, err)
	assert.Empty(t, score.HomeLineup.StarsUnconfirmed)
	assert.Empty(t, score.AwayLineup.StarsUnconfirmed)
}

func TestScoreGameSharedBaselineIsFlagged(t *testing.T) {
	scorer := newTestScorer(t)
	shared := strongBaseline("BOS")
	in := bosWasGame()
	in.Home, in.Away = shared, shared
	resolver := completeResolver(fusion.Inputs{
		Date: gameDate,
		Inactives: []models.AbsenceRecord{
			{Team: "WAS", Player: "WAS Starter 1", Source: models.SourceInactives},
		},
	})

	score, err := scorer.ScoreGame(in, resolver)
	require.NoError(t, err)

	assert.True(t, score.Trace.HasAnomaly(models.AnomalySameReference))
	assert.True(t, score.Trace.InputsCopied)
	assert.True(t, score.Trace.Critical())
	assert.Equal(t, 9.8, shared.NetRating, "caller input is never modified")
	assert.Equal(t, 0.0, shared.Volatility)
	assert.Equal(t, "BOS", shared.Team)

	assert.Equal(t, "BOS", score.HomeTeam)
	assert.Equal(t, "WAS", score.AwayTeam)
	assert.Equal(t, "WAS @ BOS", score.Matchup())
	assert.Equal(t, "WAS", score.AwayLineup.Team)
	assert.Contains(t, score.AwayLineup.StarsOut, "WAS Starter 1")
	assert.Empty(t, score.HomeLineup.StarsOut)
	assert.True(t, score.Replacement.Active)
}

func TestScoreGameMislabelledBaselineUsesGameTeams(t *testing.T) {
	scorer := newTestScorer(t)
	in := bosWasGame()
	in.Away = weakBaseline("BOS")

	score, err := scorer.ScoreGame(in, completeResolver(fusion.Inputs{Date: gameDate}))
	require.NoError(t, err)

	assert.True(t, score.Trace.HasAnomaly(models.AnomalySameTeamID))
	assert.Equal(t, "WAS", score.AwayTeam)
	assert.Equal(t, "WAS", score.AwayLineup.Team)
	assert.Equal(t, "BOS", in.Away.Team)
}

func TestScoreGameStarOutActivatesReplacement(t *testing.T) {
	scorer := newTestScorer(t)
	resolver := completeResolver(fusion.Inputs{
		Date: gameDate,
		Inactives: []models.AbsenceRecord{
			{Team: "BOS", Player: "BOS Starter 1", Source: models.SourceInactives},
		},
	})

	healthy, err := scorer.ScoreGame(bosWasGame(), completeResolver(fusion.Inputs{Date: gameDate}))
	require.NoError(t, err)
	score, err := scorer.ScoreGame(bosWasGame(), resolver)
	require.NoError(t, err)

	assert.Contains(t, score.HomeLineup.StarsOut, "BOS Starter 1")
	assert.Less(t, score.HomeLineup.AdjustedNetRating, healthy.HomeLineup.AdjustedNetRating)
	assert.True(t, score.Replacement.Active)
	assert.True(t, score.Trace.ReplacementActive)
	assert.Less(t, score.EdgeScoreTotal, healthy.EdgeScoreTotal)
}

func TestScoreGameCopiesSourceCountsIntoTrace(t *testing.T) {
	scorer := newTestScorer(t)
	counts := map[models.AbsenceSource]int{models.SourceInjuryReport: 3}
	in := bosWasGame()
	in.SourceCounts = counts

	score, err := scorer.ScoreGame(in, completeResolver(fusion.Inputs{Date: gameDate}))
	require.NoError(t, err)

	assert.Equal(t, 3, score.Trace.FusionSourceCounts[models.SourceInjuryReport])
	counts[models.SourceInjuryReport] = 7
	assert.Equal(t, 3, score.Trace.FusionSourceCounts[models.SourceInjuryReport])
}

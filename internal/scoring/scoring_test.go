package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hoops-edge/internal/models"
)

func bosBaseline() *models.TeamBaselineStrength {
	b := models.TeamBaselineStrength{
		Team:      "BOS",
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
	}.WithDefaults()
	return &b
}

func wasBaseline() *models.TeamBaselineStrength {
	b := models.TeamBaselineStrength{
		Team:      "WAS",
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
	}.WithDefaults()
	return &b
}

func lineup(team string, adjusted, avail float64) models.LineupAdjustedStrength {
	return models.LineupAdjustedStrength{Team: team, AdjustedNetRating: adjusted, AvailabilityFraction: avail}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultWeights(), nil)
	require.NoError(t, err)
	return e
}

func TestDefaultWeightsSumTo100(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, TotalWeight, w.Sum())
	assert.NoError(t, w.Validate())
	assert.Len(t, w, 20)
	assert.Empty(t, w.Diff())
}

func TestNewWeights(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]int
		wantErr   bool
	}{
		{"no overrides", nil, false},
		{"balanced override", map[string]int{FactorNetRating: 13, FactorCoaching: 3}, false},
		{"unbalanced override", map[string]int{FactorNetRating: 15}, true},
		{"unknown factor", map[string]int{"clutch_gene": 1, FactorMotivation: 1}, true},
		{"negative weight", map[string]int{FactorMotivation: -1, FactorCoaching: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWeights(tt.overrides)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrInvalidWeights))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TotalWeight, w.Sum())
		})
	}
}

func TestWeightsDiff(t *testing.T) {
	w, err := NewWeights(map[string]int{FactorNetRating: 13, FactorCoaching: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"coaching: 2 -> 3", "net_rating: 14 -> 13"}, w.Diff())
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	w := DefaultWeights()
	w[FactorHomeCourt] = 6
	_, err := NewEngine(w, nil)
	assert.ErrorIs(t, err, models.ErrInvalidWeights)
}

func TestScoreFactorOrderAndBounds(t *testing.T) {
	e := newTestEngine(t)
	trace := models.NewScoringTrace("g1")

	res, err := e.Score(Matchup{
		GameID:     "g1",
		Home:       bosBaseline(),
		Away:       wasBaseline(),
		HomeLineup: lineup("BOS", 9.1, 0.95),
		AwayLineup: lineup("WAS", -13.0, 1.0),
	}, trace)
	require.NoError(t, err)

	require.Len(t, res.Factors, 20)
	var sum float64
	for i, f := range res.Factors {
		assert.Equal(t, FactorNames()[i], f.Name)
		assert.GreaterOrEqual(t, f.SignedValue, -1.0, f.Name)
		assert.LessOrEqual(t, f.SignedValue, 1.0, f.Name)
		assert.InDelta(t, float64(f.Weight)*f.SignedValue, f.Contribution, 1e-12, f.Name)
		assert.NotEmpty(t, f.InputsUsed, f.Name)
		sum += f.Contribution
	}
	assert.InDelta(t, sum, res.EdgeScore, 1e-9)
	assert.Greater(t, res.EdgeScore, 0.0)
	assert.False(t, trace.Critical())
	assert.False(t, trace.InputsCopied)
}

func TestScoreNetRatingUsesAdjustedRating(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Score(Matchup{
		Home:       bosBaseline(),
		Away:       wasBaseline(),
		HomeLineup: lineup("BOS", 2.0, 1),
		AwayLineup: lineup("WAS", -1.0, 1),
	}, nil)
	require.NoError(t, err)

	net := res.Factors[0]
	assert.Equal(t, "Net Rating", net.DisplayName)
	assert.InDelta(t, 0.3, net.SignedValue, 1e-9)
	assert.Equal(t, "Home:+2.0 Away:-1.0", net.InputsUsed)
}

func TestScoreHomeCourtAlwaysPositive(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Score(Matchup{Home: wasBaseline(), Away: bosBaseline()}, nil)
	require.NoError(t, err)

	for _, f := range res.Factors {
		if f.Name == FactorHomeCourt {
			assert.Equal(t, 1.0, f.SignedValue)
			assert.Equal(t, 5.0, f.Contribution)
		}
		if f.Name == FactorCoaching || f.Name == FactorMotivation {
			assert.Zero(t, f.SignedValue)
		}
	}
}

func TestScoreStarAvailabilityBlend(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Score(Matchup{
		Home:        bosBaseline(),
		Away:        wasBaseline(),
		HomeLineup:  lineup("BOS", 0, 0.90),
		AwayLineup:  lineup("WAS", 0, 1.0),
		Star:        models.StarImpactResult{SignedValue: -0.4},
		Replacement: models.ReplacementResult{Active: true, SignedValue: -0.8},
	}, nil)
	require.NoError(t, err)

	star := res.Factors[1]
	assert.Equal(t, FactorStarAvailability, star.Name)
	// 0.5*-0.4 + 0.5*(-0.1/0.25) + 0.25*-0.8
	assert.InDelta(t, -0.6, star.SignedValue, 1e-9)
}

func TestScoreSameReferenceIsFlagged(t *testing.T) {
	e := newTestEngine(t)
	shared := bosBaseline()
	original := *shared
	trace := models.NewScoringTrace("g2")

	res, err := e.Score(Matchup{GameID: "g2", Home: shared, Away: shared}, trace)
	require.NoError(t, err)

	assert.True(t, trace.HasAnomaly(models.AnomalySameReference))
	assert.True(t, trace.Critical())
	assert.True(t, trace.InputsCopied)
	assert.Equal(t, 11, trace.IdenticalFields)
	assert.Equal(t, 11, trace.ComparedFields)
	assert.Equal(t, original, *shared)
	assert.InDelta(t, 5.0, res.EdgeScore, 1e-9)
}

func TestScoreChecksSuppliedBaselines(t *testing.T) {
	e := newTestEngine(t)
	shared := bosBaseline()
	home, away := *shared, *wasBaseline()
	trace := models.NewScoringTrace("g4")

	_, err := e.Score(Matchup{
		GameID:       "g4",
		Home:         &home,
		Away:         &away,
		SuppliedHome: shared,
		SuppliedAway: shared,
	}, trace)
	require.NoError(t, err)

	assert.True(t, trace.HasAnomaly(models.AnomalySameReference))
	assert.True(t, trace.InputsCopied)
}

func TestScoreNearIdenticalIsFlagged(t *testing.T) {
	e := newTestEngine(t)
	home := bosBaseline()
	away := *home
	away.Team = "MIA"
	away.NetRating = 1.5
	trace := models.NewScoringTrace("g3")

	_, err := e.Score(Matchup{GameID: "g3", Home: home, Away: &away}, trace)
	require.NoError(t, err)

	assert.True(t, trace.HasAnomaly(models.AnomalyNearIdentical))
	assert.False(t, trace.Critical())
	assert.Equal(t, 10, trace.IdenticalFields)
}

func TestCheckAliasingSameTeamID(t *testing.T) {
	home := bosBaseline()
	away := wasBaseline()
	away.Team = "bos "

	res := CheckAliasing(home, away)
	assert.Equal(t, models.AnomalySameTeamID, res.Kind)
	assert.True(t, res.Aliased())
}

func TestCheckAliasingDistinctTeams(t *testing.T) {
	res := CheckAliasing(bosBaseline(), wasBaseline())
	assert.False(t, res.Aliased())
	assert.Equal(t, 11, res.ComparedFields)
}

func TestScoreMissingBaseline(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Score(Matchup{GameID: "g4", Home: bosBaseline()}, nil)
	assert.ErrorIs(t, err, models.ErrMissingBaseline)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "3P Edge", DisplayName(FactorThreePointEdge))
	assert.Equal(t, "Rest/Fatigue", DisplayName(FactorRestFatigue))
	assert.Equal(t, "unknown", DisplayName("unknown"))
}

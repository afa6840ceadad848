package star

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/models"
)

type fakeResolver map[string]models.CanonicalStatus

func (f fakeResolver) Resolve(team, player string, isStar bool) models.PlayerStatusDetail {
	status, ok := f[team+"/"+player]
	if !ok {
		status = models.StatusAvailable
	}
	return models.PlayerStatusDetail{
		Name:       player,
		IsStar:     isStar,
		Status:     status,
		Multiplier: status.Multiplier(),
		Matched:    ok,
	}
}

func player(name string, mpg, ppg, apg float64) models.PlayerImpact {
	return models.PlayerImpact{
		PlayerStats: models.PlayerStats{
			Name:           name,
			MinutesPerGame: mpg,
			PointsPerGame:  ppg,
			AssistsPerGame: apg,
			HasMinutes:     true,
		},
		ImpactScore: ppg,
	}
}

func bosRoster() TeamInput {
	return TeamInput{Team: "BOS", Players: []models.PlayerImpact{
		player("Jayson Tatum", 36, 27, 5),
		player("Jaylen Brown", 34, 23, 4),
		player("Derrick White", 32, 16, 5),
		player("Jrue Holiday", 32, 12, 5),
		player("Payton Pritchard", 28, 14, 3),
		player("Al Horford", 26, 9, 2),
		player("Sam Hauser", 22, 8, 1),
		player("Luke Kornet", 12, 4, 1),
	}}
}

func nykRoster() TeamInput {
	return TeamInput{Team: "NYK", Players: []models.PlayerImpact{
		player("Jalen Brunson", 35, 26, 7),
		player("Karl-Anthony Towns", 34, 24, 3),
		player("Mikal Bridges", 36, 18, 3),
		player("OG Anunoby", 36, 15, 2),
		player("Josh Hart", 37, 13, 6),
		player("Miles McBride", 24, 8, 2),
		player("Mitchell Robinson", 18, 5, 1),
	}}
}

func TestSelectTiers(t *testing.T) {
	tiers := SelectTiers(bosRoster().Players)

	require.Len(t, tiers.A, 1)
	require.Len(t, tiers.B, 2)
	assert.Equal(t, "Jayson Tatum", tiers.A[0].Name)
	assert.Equal(t, "Jaylen Brown", tiers.B[0].Name)
	assert.Equal(t, "Derrick White", tiers.B[1].Name)
	assert.True(t, tiers.Contains("Derrick White"))
	assert.False(t, tiers.Contains("Jrue Holiday"))
}

func TestSelectTiersSkipsLowMinutes(t *testing.T) {
	players := []models.PlayerImpact{
		player("Bench Scorer", 15, 30, 0),
		player("Starter", 30, 12, 2),
	}
	tiers := SelectTiers(players)
	require.Len(t, tiers.A, 1)
	assert.Equal(t, "Starter", tiers.A[0].Name)
	assert.Empty(t, tiers.B)
}

func TestSelectTiersFallsBackToWholeRoster(t *testing.T) {
	players := []models.PlayerImpact{
		player("Role A", 15, 8, 1),
		player("Role B", 12, 10, 0),
	}
	tiers := SelectTiers(players)
	require.Len(t, tiers.A, 1)
	assert.Equal(t, "Role B", tiers.A[0].Name)
	assert.Len(t, tiers.B, 1)
}

func TestSelectTiersTiesByName(t *testing.T) {
	players := []models.PlayerImpact{
		player("Zed", 30, 10, 0),
		player("Abe", 30, 10, 0),
	}
	tiers := SelectTiers(players)
	assert.Equal(t, "Abe", tiers.A[0].Name)
}

func TestSelectTiersEmpty(t *testing.T) {
	tiers := SelectTiers(nil)
	assert.Empty(t, tiers.All())
}

func TestComputeAllAvailableIsNeutral(t *testing.T) {
	m := NewModel(DefaultParams())
	got := m.Compute(bosRoster(), nykRoster(), fakeResolver{}, DampeningContext{})

	assert.Equal(t, 8.0, got.HomePoints)
	assert.Equal(t, 8.0, got.AwayPoints)
	assert.Zero(t, got.RawEdge)
	assert.Zero(t, got.SignedValue)
	assert.Equal(t, 0.60, got.Dampening)
	assert.Len(t, got.HomeStars, 3)
}

// withStars marks the named players as impact stars.
func withStars(in TeamInput, names ...string) TeamInput {
	players := make([]models.PlayerImpact, len(in.Players))
	copy(players, in.Players)
	for i := range players {
		for _, n := range names {
			if players[i].Name == n {
				players[i].IsStar = true
			}
		}
	}
	return TeamInput{Team: in.Team, Players: players}
}

func TestComputeTierBNonStarStaysAvailableUnderPartialCoverage(t *testing.T) {
	table, _ := fusion.Fuse(fusion.Inputs{})
	resolver := lineup.NewResolver(table, nil, lineup.Coverage{InjuryReportAvailable: true})
	home := withStars(bosRoster(), "Jayson Tatum", "Jaylen Brown")
	away := withStars(nykRoster(), "Jalen Brunson", "Karl-Anthony Towns")

	got := NewModel(DefaultParams()).Compute(home, away, resolver, DampeningContext{})

	require.Len(t, got.HomeStars, 3)
	statuses := make(map[string]models.CanonicalStatus)
	for _, d := range got.HomeStars {
		statuses[d.Name] = d.Status
	}
	assert.Equal(t, models.StatusUnknown, statuses["Jayson Tatum"])
	assert.Equal(t, models.StatusUnknown, statuses["Jaylen Brown"])
	assert.Equal(t, models.StatusAvailable, statuses["Derrick White"])
	assert.InDelta(t, 4*0.9+2*0.9+2*1.0, got.HomePoints, 1e-9)

	repl := Replacement(home, away, resolver)
	assert.False(t, repl.Active)
}

func TestComputeHomeTierAOut(t *testing.T) {
	m := NewModel(DefaultParams())
	resolver := fakeResolver{"BOS/Jayson Tatum": models.StatusOut}
	recent := true

	got := m.Compute(bosRoster(), nykRoster(), resolver, DampeningContext{StatusChangedRecently: &recent})

	assert.Equal(t, 4.0, got.HomePoints)
	assert.Equal(t, -4.0, got.RawEdge)
	assert.Equal(t, 1.0, got.Dampening)
	assert.InDelta(t, -4.0/6.0, got.SignedValue, 1e-9)
	assert.Less(t, got.SignedValue, 0.0)
}

func TestComputeEdgeClamped(t *testing.T) {
	m := NewModel(DefaultParams())
	resolver := fakeResolver{
		"BOS/Jayson Tatum":  models.StatusOut,
		"BOS/Jaylen Brown":  models.StatusOut,
		"BOS/Derrick White": models.StatusOut,
	}
	games := 3

	got := m.Compute(bosRoster(), nykRoster(), resolver, DampeningContext{GamesSinceChange: &games})

	assert.Equal(t, -EdgeClamp, got.RawEdge)
	assert.Equal(t, 1.0, got.Dampening)
	assert.Equal(t, -1.0, got.SignedValue)
}

func TestDampeningSelection(t *testing.T) {
	m := NewModel(DefaultParams())
	yes, no := true, false
	small, large := 10, 11

	tests := []struct {
		name string
		ctx  DampeningContext
		want float64
	}{
		{"recent change", DampeningContext{StatusChangedRecently: &yes}, 1.0},
		{"no recent change", DampeningContext{StatusChangedRecently: &no}, 0.35},
		{"flag wins over sample", DampeningContext{StatusChangedRecently: &no, GamesSinceChange: &small}, 0.35},
		{"small sample", DampeningContext{GamesSinceChange: &small}, 1.0},
		{"large sample", DampeningContext{GamesSinceChange: &large}, 0.35},
		{"no context", DampeningContext{}, 0.60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := m.dampening(tt.ctx)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestReplacementInactiveWhenStarsPlay(t *testing.T) {
	resolver := fakeResolver{"BOS/Jrue Holiday": models.StatusOut}

	got := Replacement(bosRoster(), nykRoster(), resolver)

	assert.False(t, got.Active)
	assert.Equal(t, "No Tier A/B stars OUT or DOUBTFUL", got.Reason)
	assert.Zero(t, got.Edge)
	assert.Empty(t, got.Triggers)
}

func TestReplacementActiveOnStarOut(t *testing.T) {
	resolver := fakeResolver{"BOS/Jayson Tatum": models.StatusOut}

	got := Replacement(bosRoster(), nykRoster(), resolver)

	require.True(t, got.Active)
	assert.Equal(t, []string{"HOME A: Jayson Tatum (OUT)"}, got.Triggers)
	require.NotNil(t, got.Home)
	assert.Nil(t, got.Away)
	assert.Len(t, got.Home.Candidates, 3)
	assert.Less(t, got.Home.ReplacementQuality, got.Home.AbsentQuality)
	assert.GreaterOrEqual(t, got.Home.Points, -2.0)
	assert.LessOrEqual(t, got.Home.Points, 1.0)
	assert.Less(t, got.SignedValue, 0.0)
	assert.LessOrEqual(t, got.Edge, ReplacementClamp)
	assert.GreaterOrEqual(t, got.Edge, -ReplacementClamp)
}

func TestReplacementDoubtfulTriggersBothSides(t *testing.T) {
	resolver := fakeResolver{
		"BOS/Jaylen Brown":  models.StatusDoubtful,
		"NYK/Jalen Brunson": models.StatusOut,
	}

	got := Replacement(bosRoster(), nykRoster(), resolver)

	require.True(t, got.Active)
	assert.Equal(t, []string{"HOME B: Jaylen Brown (DOUBTFUL)", "AWAY A: Jalen Brunson (OUT)"}, got.Triggers)
	assert.NotNil(t, got.Home)
	assert.NotNil(t, got.Away)
}

func TestReplacementCandidatesFiltered(t *testing.T) {
	in := bosRoster()
	tiers := SelectTiers(in.Players)
	resolver := fakeResolver{"BOS/Payton Pritchard": models.StatusQuestionable}

	got := replacementCandidates(in, tiers, resolver)

	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.name
	}
	assert.Equal(t, []string{"Al Horford", "Sam Hauser", "Luke Kornet"}, names)
}

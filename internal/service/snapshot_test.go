package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hoops-edge/internal/models"
)

const slateFixture = "testdata/slate.json"

func TestLoadSnapshot(t *testing.T) {
	slate, err := LoadSnapshot(slateFixture, NewDataValidator(nil))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), slate.Date)
	require.Len(t, slate.Games, 3)
	assert.Equal(t, "BOS", slate.Games[0].Home, "team codes are canonicalized")
	require.NotNil(t, slate.Games[1].Dampening.StatusChangedRecently)
	assert.True(t, *slate.Games[1].Dampening.StatusChangedRecently)

	assert.Len(t, slate.Baselines, 5)
	assert.NotContains(t, slate.Baselines, "ORL")
	assert.Len(t, slate.Players["BOS"], 3)

	require.Len(t, slate.Absences.InjuryReport, 1)
	assert.Equal(t, models.SourceInjuryReport, slate.Absences.InjuryReport[0].Source)
	require.Len(t, slate.Absences.KnownAbsences, 1)
	ka := slate.Absences.KnownAbsences[0]
	assert.Equal(t, "LAL", ka.Team)
	require.NotNil(t, ka.EndDate)
	assert.True(t, ka.IsActive(slate.Date))

	assert.True(t, slate.Coverage.InjuryReportAvailable)
	assert.True(t, slate.Coverage.InactivesAvailable)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot("testdata/does_not_exist.json", nil)
	assert.Error(t, err)
}

func TestDecodeSnapshotCoverageInference(t *testing.T) {
	raw := `{
		"date": "2024-01-15",
		"games": [{"game_id": "g1", "home": "BOS", "away": "NYK"}],
		"absences": {"injury_report": [{"team": "BOS", "player": "A", "raw_status": "Out"}]}
	}`
	slate, err := DecodeSnapshot(strings.NewReader(raw), nil)
	require.NoError(t, err)

	assert.True(t, slate.Coverage.InjuryReportAvailable)
	assert.False(t, slate.Coverage.InactivesAvailable, "an omitted inactive list means it was unavailable")
}

func TestDecodeSnapshotExplicitCoverage(t *testing.T) {
	raw := `{
		"date": "2024-01-15",
		"games": [{"game_id": "g1", "home": "BOS", "away": "NYK"}],
		"absences": {"inactives": []},
		"coverage": {"injury_report_available": false, "inactives_available": false}
	}`
	slate, err := DecodeSnapshot(strings.NewReader(raw), nil)
	require.NoError(t, err)
	assert.True(t, slate.Coverage.None())
}

func TestDecodeSnapshotGeneratesGameIDs(t *testing.T) {
	raw := `{"date": "2024-01-15", "games": [{"home": "BOS", "away": "NYK"}], "absences": {}}`
	slate, err := DecodeSnapshot(strings.NewReader(raw), nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15-1", slate.Games[0].GameID)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bad date", `{"date": "01/15/2024", "games": [], "absences": {}}`, "invalid snapshot date"},
		{"unknown field", `{"date": "2024-01-15", "games": [], "absences": {}, "odds": {}}`, "unknown field"},
		{"malformed json", `{"date": `, "failed to decode snapshot"},
		{
			"bad known absence date",
			`{"date": "2024-01-15", "games": [], "absences": {"known_absences": [{"team": "BOS", "player": "A", "start_date": "yesterday"}]}}`,
			"invalid start_date",
		},
		{
			"known absence ends before start",
			`{"date": "2024-01-15", "games": [], "absences": {"known_absences": [{"team": "BOS", "player": "A", "start_date": "2024-01-10", "end_date": "2024-01-09"}]}}`,
			"before start_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(tt.raw), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToSlateDropsInvalidBaseline(t *testing.T) {
	snap := SlateSnapshot{
		Date:  "2024-01-15",
		Games: []GameSpec{{GameID: "g1", Home: "BOS", Away: "NYK"}},
		Baselines: map[string]*models.TeamBaselineStrength{
			"bos": {NetRating: 5},
			"NYK": {Team: "NYK", NetRating: 95},
		},
	}

	slate, err := snap.ToSlate(NewDataValidator(nil))
	require.NoError(t, err)

	require.Contains(t, slate.Baselines, "BOS")
	assert.Equal(t, "BOS", slate.Baselines["BOS"].Team)
	assert.NotContains(t, slate.Baselines, "NYK", "net rating out of range")
}

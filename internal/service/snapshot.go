package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/models"
)

// SlateSnapshot is the JSON form of a slate's inputs, used by the CLI and the
// scheduler.
type SlateSnapshot struct {
	Date      string                                  `json:"date"`
	Games     []GameSpec                              `json:"games"`
	Baselines map[string]*models.TeamBaselineStrength `json:"baselines"`
	Players   map[string][]models.PlayerStats         `json:"players"`
	Absences  SnapshotAbsences                        `json:"absences"`
	// Coverage is inferred from which authoritative lists are present when omitted.
	Coverage *lineup.Coverage `json:"coverage,omitempty"`
}

// SnapshotAbsences holds the raw rows of each absence source.
type SnapshotAbsences struct {
	Inactives     []models.AbsenceRecord `json:"inactives"`
	InjuryReport  []models.AbsenceRecord `json:"injury_report"`
	News          []models.AbsenceRecord `json:"news"`
	KnownAbsences []SnapshotKnownAbsence `json:"known_absences"`
}

// SnapshotKnownAbsence is a known absence with calendar dates as strings.
type SnapshotKnownAbsence struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	Reason    string `json:"reason"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Source    string `json:"source"`
}

// LoadSnapshot reads and converts a snapshot file.
func LoadSnapshot(path string, validator *DataValidator) (*Slate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return DecodeSnapshot(f, validator)
}

// DecodeSnapshot decodes a snapshot and converts it to a Slate.
func DecodeSnapshot(r io.Reader, validator *DataValidator) (*Slate, error) {
	var snap SlateSnapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.ToSlate(validator)
}

// ToSlate converts the snapshot. Team keys are canonicalized; a baseline that
// fails validation is dropped so its games are skipped.
func (s SlateSnapshot) ToSlate(validator *DataValidator) (*Slate, error) {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(s.Date))
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q: %w", s.Date, err)
	}

	slate := &Slate{
		Date:      date,
		Games:     make([]GameSpec, 0, len(s.Games)),
		Baselines: make(map[string]*models.TeamBaselineStrength, len(s.Baselines)),
		Players:   make(map[string][]models.PlayerStats, len(s.Players)),
		Absences: fusion.Inputs{
			Date:         date,
			Inactives:    withSource(s.Absences.Inactives, models.SourceInactives),
			InjuryReport: withSource(s.Absences.InjuryReport, models.SourceInjuryReport),
			News:         withSource(s.Absences.News, models.SourceNews),
		},
	}

	for i, g := range s.Games {
		if g.GameID == "" {
			g.GameID = fmt.Sprintf("%s-%d", s.Date, i+1)
		}
		g.Home, g.Away = fusion.TeamKey(g.Home), fusion.TeamKey(g.Away)
		slate.Games = append(slate.Games, g)
	}

	for team, b := range s.Baselines {
		if b == nil {
			continue
		}
		key := fusion.TeamKey(team)
		baseline := *b
		if baseline.Team == "" {
			baseline.Team = key
		}
		if validator != nil && !validator.IsValid("baseline/"+key, validator.ValidateBaseline(&baseline)) {
			continue
		}
		slate.Baselines[key] = &baseline
	}

	for team, players := range s.Players {
		key := fusion.TeamKey(team)
		slate.Players[key] = append(slate.Players[key], players...)
	}

	for i, ka := range s.Absences.KnownAbsences {
		known, err := ka.toKnownAbsence()
		if err != nil {
			return nil, fmt.Errorf("known_absences[%d]: %w", i, err)
		}
		slate.Absences.KnownAbsences = append(slate.Absences.KnownAbsences, known)
	}

	if s.Coverage != nil {
		slate.Coverage = *s.Coverage
	} else {
		slate.Coverage = lineup.Coverage{
			InjuryReportAvailable: s.Absences.InjuryReport != nil,
			InactivesAvailable:    s.Absences.Inactives != nil,
		}
	}

	return slate, nil
}

func (k SnapshotKnownAbsence) toKnownAbsence() (models.KnownAbsence, error) {
	start, err := time.Parse(models.DateLayout, strings.TrimSpace(k.StartDate))
	if err != nil {
		return models.KnownAbsence{}, fmt.Errorf("invalid start_date %q: %w", k.StartDate, err)
	}
	out := models.KnownAbsence{
		Team:      fusion.TeamKey(k.Team),
		Player:    strings.TrimSpace(k.Player),
		Reason:    k.Reason,
		StartDate: start,
		Source:    k.Source,
	}
	if end := strings.TrimSpace(k.EndDate); end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return models.KnownAbsence{}, fmt.Errorf("invalid end_date %q: %w", k.EndDate, err)
		}
		if t.Before(start) {
			return models.KnownAbsence{}, fmt.Errorf("end_date %s is before start_date %s", end, k.StartDate)
		}
		out.EndDate = &t
	}
	return out, nil
}

func withSource(records []models.AbsenceRecord, src models.AbsenceSource) []models.AbsenceRecord {
	if records == nil {
		return nil
	}
	out := make([]models.AbsenceRecord, len(records))
	for i, r := range records {
		if r.Source == "" {
			r.Source = src
		}
		out[i] = r
	}
	return out
}

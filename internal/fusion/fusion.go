// Package fusion merges the four absence sources into one canonical per-team table.
package fusion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/hoops-edge/internal/availability"
	"github.com/yourusername/hoops-edge/internal/models"
)

const inactiveListReason = "Inactive List"

// Inputs holds the raw records from each collaborator for one slate date.
type Inputs struct {
	Date          time.Time
	Inactives     []models.AbsenceRecord
	KnownAbsences []models.KnownAbsence
	InjuryReport  []models.AbsenceRecord
	News          []models.AbsenceRecord
}

// SourceStats counts what each merge step did.
type SourceStats struct {
	Received    int `json:"received"`
	Added       int `json:"added"`
	Upgraded    int `json:"upgraded"`
	Overwritten int `json:"overwritten"`
	Skipped     int `json:"skipped"`
}

// Report summarizes a fusion run per source.
type Report map[models.AbsenceSource]*SourceStats

func (r Report) stats(src models.AbsenceSource) *SourceStats {
	s, ok := r[src]
	if !ok {
		s = &SourceStats{}
		r[src] = s
	}
	return s
}

// String renders the report in source precedence order.
func (r Report) String() string {
	parts := make([]string, 0, len(models.AllAbsenceSources))
	for _, src := range models.AllAbsenceSources {
		s, ok := r[src]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: received=%d added=%d upgraded=%d overwritten=%d skipped=%d",
			src, s.Received, s.Added, s.Upgraded, s.Overwritten, s.Skipped))
	}
	return strings.Join(parts, "; ")
}

type entry struct {
	record models.AbsenceRecord
	key    string
}

// Table is the fused absence table keyed by team and normalized player name.
// It is built once per run and read-only afterward.
type Table struct {
	teams   map[string][]*entry
	matcher *availability.Matcher
}

func newTable() *Table {
	return &Table{
		teams:   make(map[string][]*entry),
		matcher: availability.NewMatcher(false),
	}
}

// TeamKey canonicalizes a team abbreviation.
func TeamKey(team string) string {
	return strings.ToUpper(strings.TrimSpace(team))
}

// Fuse applies the merges in precedence order: the injury report seeds the table,
// inactives and known absences force OUT, and news only fills gaps.
func Fuse(in Inputs) (*Table, Report) {
	t := newTable()
	report := make(Report)

	for _, rec := range in.InjuryReport {
		t.mergeInjuryRow(rec, report.stats(models.SourceInjuryReport))
	}
	for _, rec := range in.Inactives {
		t.mergeInactive(rec, report.stats(models.SourceInactives))
	}
	ks := report.stats(models.SourceKnownAbsence)
	for _, ka := range in.KnownAbsences {
		if !ka.IsActive(in.Date) {
			ks.Received++
			ks.Skipped++
			continue
		}
		t.mergeKnownAbsence(ka, ks)
	}
	for _, rec := range in.News {
		t.mergeNews(rec, report.stats(models.SourceNews))
	}

	return t, report
}

func (t *Table) mergeInjuryRow(rec models.AbsenceRecord, s *SourceStats) {
	s.Received++
	rec.Source = models.SourceInjuryReport
	if !rec.CanonicalStatus.IsValid() {
		rec = availability.NormalizeRecord(rec)
	}
	if t.find(rec.Team, rec.Player) != nil {
		s.Skipped++
		return
	}
	t.add(rec)
	s.Added++
}

func (t *Table) mergeInactive(rec models.AbsenceRecord, s *SourceStats) {
	s.Received++
	reason := rec.RawReason
	if reason == "" {
		reason = inactiveListReason
	}

	if e := t.find(rec.Team, rec.Player); e != nil {
		if e.record.CanonicalStatus != models.StatusOut {
			e.record.CanonicalStatus = models.StatusOut
			e.record.RawStatus = "Out"
			e.record.RawReason = reason
			s.Upgraded++
		} else {
			s.Skipped++
		}
		e.record.Source = models.SourceInactives
		return
	}

	rec.Source = models.SourceInactives
	rec.RawStatus = "Out"
	rec.RawReason = reason
	rec.CanonicalStatus = models.StatusOut
	t.add(rec)
	s.Added++
}

func (t *Table) mergeKnownAbsence(ka models.KnownAbsence, s *SourceStats) {
	s.Received++
	rec := ka.ToRecord()
	if e := t.find(rec.Team, rec.Player); e != nil {
		if e.record.Source == models.SourceInactives {
			s.Skipped++
			return
		}
		rec.Player = e.record.Player
		e.record = rec
		s.Overwritten++
		return
	}
	t.add(rec)
	s.Added++
}

func (t *Table) mergeNews(rec models.AbsenceRecord, s *SourceStats) {
	s.Received++
	if t.find(rec.Team, rec.Player) != nil {
		s.Skipped++
		return
	}
	rec.Source = models.SourceNews
	if !rec.CanonicalStatus.IsValid() {
		rec.CanonicalStatus = availability.NewsStatus(rec.RawStatus)
	}
	if rec.Origin != "" && !strings.Contains(rec.RawReason, "(via ") {
		rec.RawReason = strings.TrimSpace(rec.RawReason + " (via " + rec.Origin + ")")
	}
	t.add(rec)
	s.Added++
}

func (t *Table) add(rec models.AbsenceRecord) {
	team := TeamKey(rec.Team)
	rec.Team = team
	t.teams[team] = append(t.teams[team], &entry{
		record: rec,
		key:    availability.NormalizeName(rec.Player),
	})
}

// find returns the entry for player on team, preferring an exact normalized
// match over a fuzzy one.
func (t *Table) find(team, player string) *entry {
	entries := t.teams[TeamKey(team)]
	if len(entries) == 0 {
		return nil
	}
	key := availability.NormalizeName(player)
	if key == "" {
		return nil
	}
	for _, e := range entries {
		if e.key == key {
			return e
		}
	}
	for _, e := range entries {
		if t.matcher.MatchNormalized(key, e.key) {
			return e
		}
	}
	return nil
}

// Lookup returns the fused record for player on team.
func (t *Table) Lookup(team, player string) (models.AbsenceRecord, bool) {
	if t == nil {
		return models.AbsenceRecord{}, false
	}
	e := t.find(team, player)
	if e == nil {
		return models.AbsenceRecord{}, false
	}
	return e.record, true
}

// Team returns the records for one team in insertion order.
func (t *Table) Team(team string) []models.AbsenceRecord {
	if t == nil {
		return nil
	}
	entries := t.teams[TeamKey(team)]
	out := make([]models.AbsenceRecord, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}

// Records returns every record ordered by team, then insertion order.
func (t *Table) Records() []models.AbsenceRecord {
	if t == nil {
		return nil
	}
	teams := make([]string, 0, len(t.teams))
	for team := range t.teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var out []models.AbsenceRecord
	for _, team := range teams {
		out = append(out, t.Team(team)...)
	}
	return out
}

// Len returns the total number of fused records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, entries := range t.teams {
		n += len(entries)
	}
	return n
}

// SourceCounts returns how many final records each source owns.
func (t *Table) SourceCounts() map[models.AbsenceSource]int {
	counts := make(map[models.AbsenceSource]int)
	if t == nil {
		return counts
	}
	for _, entries := range t.teams {
		for _, e := range entries {
			counts[e.record.Source]++
		}
	}
	return counts
}

// Package lineup derives lineup-adjusted team strength from the fused absence table.
package lineup

import (
	"github.com/yourusername/hoops-edge/internal/availability"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/models"
)

// Coverage records which authoritative sources were available for the slate.
type Coverage struct {
	InjuryReportAvailable bool `json:"injury_report_available"`
	InactivesAvailable    bool `json:"inactives_available"`
}

// Complete reports whether both authoritative sources were available.
func (c Coverage) Complete() bool {
	return c.InjuryReportAvailable && c.InactivesAvailable
}

// None reports whether neither authoritative source was available.
func (c Coverage) None() bool {
	return !c.InjuryReportAvailable && !c.InactivesAvailable
}

// Resolver resolves a player's canonical status: inactive list first, then the
// fused table, then a default that depends on star status and coverage.
type Resolver struct {
	table     *fusion.Table
	inactives map[string][]models.AbsenceRecord
	coverage  Coverage
	matcher   *availability.Matcher
}

// NewResolver builds a resolver over one slate's fused table and inactive list.
func NewResolver(table *fusion.Table, inactives []models.AbsenceRecord, coverage Coverage) *Resolver {
	byTeam := make(map[string][]models.AbsenceRecord)
	for _, rec := range inactives {
		team := fusion.TeamKey(rec.Team)
		byTeam[team] = append(byTeam[team], rec)
	}
	return &Resolver{
		table:     table,
		inactives: byTeam,
		coverage:  coverage,
		matcher:   availability.NewMatcher(false),
	}
}

// Coverage returns the source coverage the resolver was built with.
func (r *Resolver) Coverage() Coverage {
	return r.coverage
}

// Resolve returns the status detail for player. Impact is left for the caller.
// An unmatched star under incomplete coverage resolves to UNKNOWN; any other
// unmatched player is AVAILABLE.
func (r *Resolver) Resolve(team, player string, isStar bool) models.PlayerStatusDetail {
	detail := models.PlayerStatusDetail{Name: player, IsStar: isStar}

	for _, rec := range r.inactives[fusion.TeamKey(team)] {
		if r.matcher.Match(player, rec.Player) {
			detail.Status = models.StatusOut
			detail.Matched = true
			detail.Source = models.SourceInactives
			detail.Reason = rec.RawReason
			detail.Multiplier = detail.Status.Multiplier()
			return detail
		}
	}

	if rec, ok := r.table.Lookup(team, player); ok {
		detail.Status = rec.CanonicalStatus
		detail.Matched = true
		detail.Source = rec.Source
		detail.Reason = rec.RawReason
		detail.Multiplier = detail.Status.Multiplier()
		return detail
	}

	if isStar && !r.coverage.Complete() {
		detail.Status = models.StatusUnknown
	} else {
		detail.Status = models.StatusAvailable
	}
	detail.Multiplier = detail.Status.Multiplier()
	return detail
}

package models

import "time"

// DateLayout is the calendar-date format used by absence files and slate snapshots.
const DateLayout = "2006-01-02"

// KnownAbsence is a manually tracked absence that the official report omits
// (personal reasons, rest, team decisions, suspensions).
type KnownAbsence struct {
	Team      string     `json:"team" validate:"required"`
	Player    string     `json:"player" validate:"required"`
	Reason    string     `json:"reason"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Source    string     `json:"source"`
}

// IsActive reports whether the absence covers the calendar day of date.
// A nil EndDate means the absence is open-ended.
func (k KnownAbsence) IsActive(date time.Time) bool {
	day := truncateDay(date)
	if truncateDay(k.StartDate).After(day) {
		return false
	}
	if k.EndDate != nil && truncateDay(*k.EndDate).Before(day) {
		return false
	}
	return true
}

// ToRecord converts the absence into a forced-OUT absence record.
func (k KnownAbsence) ToRecord() AbsenceRecord {
	return AbsenceRecord{
		Team:            k.Team,
		Player:          k.Player,
		RawStatus:       "Out",
		RawReason:       k.Reason,
		CanonicalStatus: StatusOut,
		Source:          SourceKnownAbsence,
		Origin:          k.Source,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

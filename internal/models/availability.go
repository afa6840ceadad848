package models

import "strings"

// CanonicalStatus is the normalized availability state of a player.
type CanonicalStatus string

// Canonical availability states ordered by severity.
const (
	StatusOut          CanonicalStatus = "OUT"
	StatusDoubtful     CanonicalStatus = "DOUBTFUL"
	StatusQuestionable CanonicalStatus = "QUESTIONABLE"
	StatusProbable     CanonicalStatus = "PROBABLE"
	StatusAvailable    CanonicalStatus = "AVAILABLE"
	StatusUnknown      CanonicalStatus = "UNKNOWN"
)

var statusMultipliers = map[CanonicalStatus]float64{
	StatusOut:          0.0,
	StatusDoubtful:     0.25,
	StatusQuestionable: 0.60,
	StatusProbable:     0.85,
	StatusAvailable:    1.0,
	StatusUnknown:      0.90,
}

// Multiplier returns the fraction of a player's impact expected to be on the floor.
// Unrecognized values are treated as AVAILABLE.
func (s CanonicalStatus) Multiplier() float64 {
	if m, ok := statusMultipliers[s]; ok {
		return m
	}
	return 1.0
}

// IsValid reports whether s is one of the six canonical states.
func (s CanonicalStatus) IsValid() bool {
	_, ok := statusMultipliers[s]
	return ok
}

// IsAbsent reports whether the status removes the player from the projected lineup.
func (s CanonicalStatus) IsAbsent() bool {
	return s == StatusOut || s == StatusDoubtful
}

// IsUncertain reports whether the status is a game-time call.
func (s CanonicalStatus) IsUncertain() bool {
	return s == StatusQuestionable || s == StatusDoubtful
}

// Label returns the title-case form used in missing-player listings.
func (s CanonicalStatus) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// AbsenceSource identifies which collaborator produced an absence record.
type AbsenceSource string

// Absence sources in descending precedence.
const (
	SourceInactives    AbsenceSource = "INACTIVES"
	SourceKnownAbsence AbsenceSource = "KNOWN_ABSENCE"
	SourceInjuryReport AbsenceSource = "INJURY_REPORT"
	SourceNews         AbsenceSource = "NEWS"
)

// AllAbsenceSources lists sources in the order fusion applies them.
var AllAbsenceSources = []AbsenceSource{
	SourceInactives,
	SourceKnownAbsence,
	SourceInjuryReport,
	SourceNews,
}

// IsValid reports whether s is a known absence source.
func (s AbsenceSource) IsValid() bool {
	switch s {
	case SourceInactives, SourceKnownAbsence, SourceInjuryReport, SourceNews:
		return true
	default:
		return false
	}
}

// AbsenceRecord is a single typed absence row. Records are rebuilt on every run.
type AbsenceRecord struct {
	Team            string          `json:"team" validate:"required"`
	Player          string          `json:"player" validate:"required"`
	RawStatus       string          `json:"raw_status"`
	RawReason       string          `json:"raw_reason"`
	CanonicalStatus CanonicalStatus `json:"canonical_status"`
	Source          AbsenceSource   `json:"source" validate:"required"`
	// Origin names the upstream publisher for news rows, e.g. "espn".
	Origin string `json:"origin,omitempty"`
}

// AvailabilityConfidence rates how trustworthy a team's lineup picture is.
type AvailabilityConfidence string

// Availability confidence tiers.
const (
	ConfidenceLow    AvailabilityConfidence = "LOW"
	ConfidenceMedium AvailabilityConfidence = "MEDIUM"
	ConfidenceHigh   AvailabilityConfidence = "HIGH"
)

// Rank orders confidence tiers so that LOW < MEDIUM < HIGH.
func (c AvailabilityConfidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

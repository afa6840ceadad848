// Package availability turns free-text injury designations and player names into
// canonical, comparable values.
package availability

import (
	"strings"

	"github.com/yourusername/hoops-edge/internal/models"
)

// Keyword classes are matched as substrings of "status reason", lowercased.
var (
	outKeywords = []string{
		"out",
		"inactive",
		"not with team",
		"personal",
		"rest",
		"suspended",
		"suspension",
		"g league",
		"g-league",
		"two-way",
		"two way",
		"illness",
		"health and safety",
		"health & safety",
		"protocol",
		"dnp",
		"did not play",
		"not available",
		"waived",
		"released",
	}
	doubtfulKeywords     = []string{"doubtful", "unlikely"}
	questionableKeywords = []string{"questionable", "game time decision", "gtd"}
	probableKeywords     = []string{"probable", "likely", "expected to play"}
)

// Normalize maps a raw status and reason to a canonical status. The first matching
// rule wins: OUT keywords anywhere, exact out tokens, doubtful, questionable and
// probable keywords, then single-letter codes. Anything else is AVAILABLE.
func Normalize(status, reason string) models.CanonicalStatus {
	statusLower := strings.ToLower(strings.TrimSpace(status))
	reasonLower := strings.ToLower(strings.TrimSpace(reason))
	combined := statusLower + " " + reasonLower

	switch {
	case containsAny(combined, outKeywords):
		return models.StatusOut
	case statusLower == "out" || statusLower == "o":
		return models.StatusOut
	case containsAny(combined, doubtfulKeywords):
		return models.StatusDoubtful
	case containsAny(combined, questionableKeywords):
		return models.StatusQuestionable
	case containsAny(combined, probableKeywords):
		return models.StatusProbable
	}

	switch {
	case statusLower == "d" || strings.Contains(statusLower, "doubt"):
		return models.StatusDoubtful
	case statusLower == "q" || strings.Contains(statusLower, "question"):
		return models.StatusQuestionable
	case statusLower == "p" || strings.Contains(statusLower, "prob"):
		return models.StatusProbable
	}

	return models.StatusAvailable
}

// NormalizeRecord fills CanonicalStatus on r from its raw fields.
func NormalizeRecord(r models.AbsenceRecord) models.AbsenceRecord {
	r.CanonicalStatus = Normalize(r.RawStatus, r.RawReason)
	return r
}

// NewsStatus maps a news-wire status label. Unrecognized labels are OUT,
// since a news item naming a player is itself an absence signal.
func NewsStatus(status string) models.CanonicalStatus {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case strings.Contains(s, "doubt"):
		return models.StatusDoubtful
	case strings.Contains(s, "question"), strings.Contains(s, "day-to-day"), strings.Contains(s, "day to day"):
		return models.StatusQuestionable
	case strings.Contains(s, "prob"):
		return models.StatusProbable
	default:
		return models.StatusOut
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

package service

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	maxPointsPerGame   = 60.0
	maxAssistsPerGame  = 20.0
	maxAbsNetRating    = 40.0
	minRating          = 80.0
	maxRating          = 140.0
	maxPace            = 120.0
	minPace            = 80.0
	maxReasonableRest  = 30
	maxPercentageValue = 100.0
)

// DataValidator validates ingested players, baselines and absence rows
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DataValidator{
		validate: validator.New(),
		logger:   logger.WithField("component", "validator"),
	}
}

// ValidatePlayer validates player stats for required fields and plausible ranges
func (v *DataValidator) ValidatePlayer(p *models.PlayerStats) []string {
	errors := v.structErrors(p)

	if p.PointsPerGame > maxPointsPerGame {
		errors = append(errors, fmt.Sprintf("points_per_game out of range (0-%.0f), got %.1f", maxPointsPerGame, p.PointsPerGame))
	}
	if p.AssistsPerGame > maxAssistsPerGame {
		errors = append(errors, fmt.Sprintf("assists_per_game out of range (0-%.0f), got %.1f", maxAssistsPerGame, p.AssistsPerGame))
	}
	if !p.HasMinutes && p.MinutesPerGame > 0 {
		errors = append(errors, "minutes_per_game set but has_minutes is false")
	}
	if hasNaN(p.MinutesPerGame, p.PointsPerGame, p.AssistsPerGame) {
		errors = append(errors, "player stats contain NaN")
	}

	return errors
}

// ValidateBaseline validates a team baseline. Zero rate stats are allowed since
// defaults fill them later.
func (v *DataValidator) ValidateBaseline(b *models.TeamBaselineStrength) []string {
	errors := v.structErrors(b)

	ratings := []struct {
		name string
		val  float64
	}{
		{"net_rating", b.NetRating},
		{"home_net_rating", b.HomeNetRating},
		{"road_net_rating", b.RoadNetRating},
		{"last_15_net_rating", b.Last15Net},
		{"last_5_net_rating", b.Last5Net},
	}
	for _, r := range ratings {
		if math.Abs(r.val) > maxAbsNetRating {
			errors = append(errors, fmt.Sprintf("%s out of range (±%.0f), got %.1f", r.name, maxAbsNetRating, r.val))
		}
	}
	if b.OffRating != 0 && (b.OffRating < minRating || b.OffRating > maxRating) {
		errors = append(errors, fmt.Sprintf("off_rating out of range (%.0f-%.0f), got %.1f", minRating, maxRating, b.OffRating))
	}
	if b.DefRating != 0 && (b.DefRating < minRating || b.DefRating > maxRating) {
		errors = append(errors, fmt.Sprintf("def_rating out of range (%.0f-%.0f), got %.1f", minRating, maxRating, b.DefRating))
	}
	if b.Pace != 0 && (b.Pace < minPace || b.Pace > maxPace) {
		errors = append(errors, fmt.Sprintf("pace out of range (%.0f-%.0f), got %.1f", minPace, maxPace, b.Pace))
	}
	if b.TOVPct < 0 || b.TOVPct > maxPercentageValue || b.RebPct < 0 || b.RebPct > maxPercentageValue {
		errors = append(errors, "percentage stats must be within 0-100")
	}
	if b.RestDays > maxReasonableRest {
		errors = append(errors, fmt.Sprintf("rest_days unreasonably large: %d", b.RestDays))
	}
	if hasNaN(b.NetRating, b.OffRating, b.DefRating, b.Pace, b.EFGPct, b.FG3Pct, b.FG3ARate) {
		errors = append(errors, "baseline contains NaN")
	}

	return errors
}

// ValidateAbsence validates an absence record
func (v *DataValidator) ValidateAbsence(r *models.AbsenceRecord) []string {
	errors := v.structErrors(r)
	if r.Source != "" && !r.Source.IsValid() {
		errors = append(errors, fmt.Sprintf("unknown source %q", r.Source))
	}
	if r.CanonicalStatus != "" && !r.CanonicalStatus.IsValid() {
		errors = append(errors, fmt.Sprintf("unknown canonical status %q", r.CanonicalStatus))
	}
	return errors
}

// ValidateKnownAbsence validates a known absence window
func (v *DataValidator) ValidateKnownAbsence(k *models.KnownAbsence) []string {
	errors := v.structErrors(k)
	if k.StartDate.IsZero() {
		errors = append(errors, "start_date is required")
	}
	if k.EndDate != nil && k.EndDate.Before(k.StartDate) {
		errors = append(errors, "end_date is before start_date")
	}
	return errors
}

// IsValid reports whether errs is empty, logging them otherwise
func (v *DataValidator) IsValid(subject string, errs []string) bool {
	if len(errs) == 0 {
		return true
	}
	v.logger.WithFields(logrus.Fields{"subject": subject, "errors": errs}).Debug("Validation failed")
	return false
}

func (v *DataValidator) structErrors(s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		out = append(out, fmt.Sprintf("%s failed %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return out
}

func hasNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

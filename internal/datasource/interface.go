// Package datasource adapts external absence feeds into canonical absence records.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/hoops-edge/internal/models"
)

// AbsenceSource defines the interface for fetching player absences from one provider
type AbsenceSource interface {
	// FetchAbsences retrieves the absences published for the given slate date
	FetchAbsences(ctx context.Context, date time.Time) (*Batch, error)

	// Name returns the configured name of the data source
	Name() string

	// Kind returns which fusion input this source feeds
	Kind() models.AbsenceSource

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// Batch is one fetch result. Known-absence sources fill KnownAbsences; every
// other kind fills Records.
type Batch struct {
	Source        string                 `json:"source"`
	Kind          models.AbsenceSource   `json:"kind"`
	Date          time.Time              `json:"date"`
	Records       []models.AbsenceRecord `json:"records,omitempty"`
	KnownAbsences []models.KnownAbsence  `json:"known_absences,omitempty"`
	FetchedAt     time.Time              `json:"fetched_at"`
	CacheHit      bool                   `json:"-"`
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records) + len(b.KnownAbsences)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the DataSourceError code from err, or ErrCodeUnknown.
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}

package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrMissingBaseline = errors.New("missing team baseline")
	ErrInvalidWeights  = errors.New("factor weights must sum to 100")
	ErrInvalidMatchup  = errors.New("invalid matchup: home and away teams are required")
	ErrEmptySlate      = errors.New("slate has no games")
	ErrUnknownSource   = errors.New("unknown absence source")
)

package domain

import "errors"

// Sentinel errors shared by the store, scheduler and session layers.
// Use errors.Is to check: errors.Is(err, domain.ErrValidation)
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidRating     = errors.New("invalid rating")
	ErrInvalidTransition = errors.New("invalid review transition")
)

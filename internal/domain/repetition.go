package domain

import (
	"fmt"
	"math"
	"time"
)

// RepetitionConfig holds the fixed interval applied for each rating
type RepetitionConfig struct {
	Again float64 `json:"again" yaml:"again"` // minutes
	Hard  float64 `json:"hard" yaml:"hard"`   // hours
	Good  float64 `json:"good" yaml:"good"`   // days
	Easy  float64 `json:"easy" yaml:"easy"`   // days
}

// DefaultRepetitionConfig is used until the user saves their own intervals
var DefaultRepetitionConfig = RepetitionConfig{
	Again: 10,
	Hard:  1,
	Good:  1,
	Easy:  4,
}

// Validate checks that every interval is positive and fits in a time.Duration
func (c RepetitionConfig) Validate() error {
	if !(c.Again > 0 && c.Hard > 0 && c.Good > 0 && c.Easy > 0) {
		return fmt.Errorf("%w: repetition intervals must be positive", ErrValidation)
	}
	if !fits(c.Again, time.Minute) || !fits(c.Hard, time.Hour) ||
		!fits(c.Good, 24*time.Hour) || !fits(c.Easy, 24*time.Hour) {
		return fmt.Errorf("%w: repetition interval too large", ErrValidation)
	}
	return nil
}

func fits(n float64, unit time.Duration) bool {
	return n*float64(unit) < math.MaxInt64
}

// Interval returns the delay until the next review for the given rating
func (c RepetitionConfig) Interval(r Rating) (time.Duration, error) {
	switch r {
	case Again:
		return scale(c.Again, time.Minute), nil
	case Hard:
		return scale(c.Hard, time.Hour), nil
	case Good:
		return scale(c.Good, 24*time.Hour), nil
	case Easy:
		return scale(c.Easy, 24*time.Hour), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
}

// scale saturates at the largest Duration instead of overflowing
func scale(n float64, unit time.Duration) time.Duration {
	if !fits(n, unit) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(n * float64(unit))
}

// String describes the intervals, e.g. "again 10m, hard 1h, good 1d, easy 4d"
func (c RepetitionConfig) String() string {
	return fmt.Sprintf("again %gm, hard %gh, good %gd, easy %gd", c.Again, c.Hard, c.Good, c.Easy)
}

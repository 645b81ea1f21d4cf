package domain

import (
	"fmt"
	"strings"
)

// Rating is the user's self-assessed recall quality
type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

var ratingNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// Ratings lists all valid ratings in button order
var Ratings = []Rating{Again, Hard, Good, Easy}

// IsValid reports whether r is one of Again..Easy
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the lower-case rating name
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating converts "again", "hard", "good" or "easy" (any case) to a Rating
func ParseRating(s string) (Rating, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Ratings {
		if ratingNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// MarshalText implements encoding.TextMarshaler
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

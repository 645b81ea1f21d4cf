package domain

import (
	"fmt"
	"strings"
	"time"
)

// Flashcard is a word pair with review metadata
type Flashcard struct {
	ID              string     `json:"id" yaml:"id"`
	NativeWord      string     `json:"nativeWord" yaml:"nativeWord"`
	TargetWord      string     `json:"targetWord" yaml:"targetWord"`
	NativeExample   string     `json:"nativeExample,omitempty" yaml:"nativeExample,omitempty"`
	TargetExample   string     `json:"targetExample,omitempty" yaml:"targetExample,omitempty"`
	DeckID          string     `json:"deckId" yaml:"deckId"`
	LastReviewed    *time.Time `json:"lastReviewed,omitempty" yaml:"lastReviewed,omitempty"`
	NextReview      *time.Time `json:"nextReview,omitempty" yaml:"nextReview,omitempty"`
	RepetitionLevel int        `json:"repetitionLevel" yaml:"repetitionLevel"`
	AudioURL        string     `json:"audioUrl,omitempty" yaml:"audioUrl,omitempty"`
}

// Validate checks required fields
func (c Flashcard) Validate() error {
	if strings.TrimSpace(c.NativeWord) == "" || strings.TrimSpace(c.TargetWord) == "" {
		return fmt.Errorf("%w: native and target word cannot be empty", ErrValidation)
	}
	if c.DeckID == "" {
		return fmt.Errorf("%w: card must belong to a deck", ErrValidation)
	}
	return nil
}

// IsDue reports whether the card should be reviewed at now.
// Cards that were never rated are always due.
func (c Flashcard) IsDue(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}

// Reviewed reports whether the card has been rated at least once
func (c Flashcard) Reviewed() bool {
	return c.LastReviewed != nil
}

// AvoidWord returns the word the generator should not repeat.
// In definition mode the target side is a definition, so the native word is used.
func (c Flashcard) AvoidWord(p Partition) string {
	if p.IsDefinitionMode() {
		return c.NativeWord
	}
	return c.TargetWord
}

// DeletedWord identifies vocabulary removed after it was reviewed
type DeletedWord struct {
	NativeWord string `json:"nativeWord"`
	TargetWord string `json:"targetWord"`
}

// AvoidWord mirrors Flashcard.AvoidWord for a deleted record
func (d DeletedWord) AvoidWord(p Partition) string {
	if p.IsDefinitionMode() {
		return d.NativeWord
	}
	return d.TargetWord
}

// FormatUntil returns a short description of when a card is next due
func FormatUntil(next *time.Time, now time.Time) string {
	if next == nil {
		return "Not reviewed yet"
	}

	diff := next.Sub(now)
	if diff <= 0 {
		return "Due now"
	}

	days := int(diff / (24 * time.Hour))
	hours := int(diff / time.Hour)
	minutes := int(diff / time.Minute)

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return plural(minutes, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

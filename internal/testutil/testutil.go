package testutil

import (
	"time"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestPartition returns the English → French partition
func NewTestPartition() domain.Partition {
	return domain.NewPartition("English", "French")
}

// NewTestCard creates an unreviewed test card
func NewTestCard(id, deckID, nativeWord, targetWord string) domain.Flashcard {
	return domain.Flashcard{
		ID:         id,
		NativeWord: nativeWord,
		TargetWord: targetWord,
		DeckID:     deckID,
	}
}

// NewReviewedCard creates a card last reviewed at reviewed and due at next
func NewReviewedCard(id, deckID, nativeWord, targetWord string, reviewed, next time.Time) domain.Flashcard {
	card := NewTestCard(id, deckID, nativeWord, targetWord)
	card.LastReviewed = &reviewed
	card.NextReview = &next
	card.RepetitionLevel = 1
	return card
}

// Clock is a settable time source for tests
type Clock struct {
	T time.Time
}

// NewClock creates a clock fixed at t
func NewClock(t time.Time) *Clock {
	return &Clock{T: t}
}

// Now returns the clock's time
func (c *Clock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

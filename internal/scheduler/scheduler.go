// Package scheduler computes the next review time of a flashcard.
//
// Each rating maps to a fixed interval taken from the user's
// RepetitionConfig. The repetition level is bookkept but does not
// influence the interval.
package scheduler

import (
	"fmt"
	"time"

	"flashdeck/internal/domain"
)

// Clock returns the current time
type Clock func() time.Time

// ScheduleNext returns a copy of card rated at now. The store is not
// touched; callers persist the result.
func ScheduleNext(card domain.Flashcard, rating domain.Rating, cfg domain.RepetitionConfig, now time.Time) (domain.Flashcard, error) {
	interval, err := cfg.Interval(rating)
	if err != nil {
		return card, err
	}
	if interval <= 0 {
		return card, fmt.Errorf("%w: non-positive interval for %s", domain.ErrValidation, rating)
	}

	level := card.RepetitionLevel
	switch rating {
	case domain.Again:
		level = max(0, level-1)
	case domain.Good:
		level++
	case domain.Easy:
		level += 2
	}

	reviewed := now
	next := now.Add(interval)

	card.LastReviewed = &reviewed
	card.NextReview = &next
	card.RepetitionLevel = level

	return card, nil
}

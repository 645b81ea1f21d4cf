package service

import (
	"errors"
	"fmt"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
)

// Side is the face of the card being presented
type Side int

const (
	Front Side = iota
	Back
)

// SessionState is the state of a review session
type SessionState int

const (
	StatePresenting SessionState = iota
	StateComplete
)

// ReviewService starts review sessions
type ReviewService struct {
	cards   *CardService
	history *HistoryService
	logger  *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(cards *CardService, history *HistoryService, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		cards:   cards,
		history: history,
		logger:  logger,
	}
}

// Start snapshots the due cards of p (optionally only deckID) and returns a
// session over them
func (s *ReviewService) Start(p domain.Partition, deckID string) *ReviewSession {
	due := s.cards.DueCards(p, deckID)

	s.logger.Info("Review session started",
		zap.String("partition", p.String()),
		zap.String("deck_id", deckID),
		zap.Int("due", len(due)),
	)

	session := &ReviewSession{
		partition: p,
		due:       due,
		cards:     s.cards,
		history:   s.history,
		logger:    s.logger,
	}
	if len(due) == 0 {
		session.state = StateComplete
	}
	return session
}

// ReviewSession walks a snapshot of due cards once, front then back, in order.
// It is not safe for concurrent use.
type ReviewSession struct {
	partition domain.Partition
	due       []domain.Flashcard
	index     int
	side      Side
	state     SessionState

	cards   *CardService
	history *HistoryService
	logger  *zap.Logger
}

// State returns the current session state
func (r *ReviewSession) State() SessionState {
	return r.state
}

// Partition returns the partition under review
func (r *ReviewSession) Partition() domain.Partition {
	return r.partition
}

// Current returns the presented card and side. ok is false once complete.
func (r *ReviewSession) Current() (card domain.Flashcard, side Side, ok bool) {
	if r.state == StateComplete {
		return domain.Flashcard{}, Front, false
	}
	return r.due[r.index], r.side, true
}

// Progress returns the zero-based index of the presented card and the
// snapshot size
func (r *ReviewSession) Progress() (index, total int) {
	return r.index, len(r.due)
}

// Reveal turns the presented card to its back
func (r *ReviewSession) Reveal() error {
	if r.state == StateComplete {
		return fmt.Errorf("%w: session is complete", domain.ErrInvalidTransition)
	}
	r.side = Back
	return nil
}

// Rate schedules the presented card with rating, persists it and advances.
// The card must have been revealed first.
func (r *ReviewSession) Rate(rating domain.Rating) (domain.Flashcard, error) {
	if r.state == StateComplete {
		return domain.Flashcard{}, fmt.Errorf("%w: session is complete", domain.ErrInvalidTransition)
	}
	if r.side != Back {
		return domain.Flashcard{}, fmt.Errorf("%w: reveal the answer before rating", domain.ErrInvalidTransition)
	}
	if !rating.IsValid() {
		return domain.Flashcard{}, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(rating))
	}

	current := r.due[r.index]
	updated, err := r.cards.RecordReview(r.partition, current.ID, rating, r.history.RepetitionConfig())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Flashcard{}, err
	}
	// A card deleted mid-session is skipped.

	r.advance()
	return updated, nil
}

// End discards the remaining snapshot. Ratings already given stay persisted.
func (r *ReviewSession) End() {
	if r.state != StateComplete {
		r.logger.Info("Review session ended early",
			zap.String("partition", r.partition.String()),
			zap.Int("reviewed", r.index),
			zap.Int("total", len(r.due)),
		)
	}
	r.state = StateComplete
}

func (r *ReviewSession) advance() {
	r.side = Front
	if r.index+1 >= len(r.due) {
		r.index = len(r.due)
		r.state = StateComplete
		return
	}
	r.index++
}

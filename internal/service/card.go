package service

import (
	"fmt"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
	"flashdeck/internal/scheduler"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// SaveResult counts what happened to each card of an add or save call
type SaveResult struct {
	Saved   int
	Skipped int // id already present
	Invalid int // failed validation
}

// CardService manages flashcards inside a partition
type CardService struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewCardService creates a new card service
func NewCardService(catalog *Catalog) *CardService {
	return &CardService{
		catalog: catalog,
		logger:  catalog.logger,
	}
}

// AddCard saves a single card. The card's deck must exist; a card whose id
// is already stored is skipped.
func (s *CardService) AddCard(p domain.Partition, card domain.Flashcard) (SaveResult, error) {
	if err := p.Validate(); err != nil {
		return SaveResult{}, err
	}
	if err := card.Validate(); err != nil {
		return SaveResult{}, err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return SaveResult{}, nil
	}
	if indexOfDeck(decks, card.DeckID) < 0 {
		return SaveResult{}, fmt.Errorf("%w: deck %q does not exist", domain.ErrValidation, card.DeckID)
	}

	return s.saveLocked(p, []domain.Flashcard{card}), nil
}

// SaveCards stamps every card with deckID and saves the batch. Invalid cards
// and duplicate ids are skipped without aborting the rest.
func (s *CardService) SaveCards(p domain.Partition, deckID string, cards []domain.Flashcard) (SaveResult, error) {
	if err := p.Validate(); err != nil {
		return SaveResult{}, err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return SaveResult{}, nil
	}
	if indexOfDeck(decks, deckID) < 0 {
		return SaveResult{}, fmt.Errorf("%w: deck %q does not exist", domain.ErrValidation, deckID)
	}

	var result SaveResult
	batch := make([]domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		c.DeckID = deckID
		if err := c.Validate(); err != nil {
			s.logger.Warn("Skipping invalid card", zap.String("card_id", c.ID), zap.Error(err))
			result.Invalid++
			continue
		}
		batch = append(batch, c)
	}

	saved := s.saveLocked(p, batch)
	result.Saved = saved.Saved
	result.Skipped = saved.Skipped
	return result, nil
}

// saveLocked appends valid cards, skipping ids that already exist.
// The caller holds catalog.mu.
func (s *CardService) saveLocked(p domain.Partition, batch []domain.Flashcard) SaveResult {
	var result SaveResult

	existing, err := s.catalog.cards(p)
	if err != nil {
		return result
	}

	ids := make(map[string]struct{}, len(existing)+len(batch))
	for _, c := range existing {
		ids[c.ID] = struct{}{}
	}

	for _, c := range batch {
		if c.ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				s.logger.Error("Failed to generate card id", zap.Error(err))
				result.Invalid++
				continue
			}
			c.ID = id
		}
		if _, dup := ids[c.ID]; dup {
			s.logger.Warn("Card already exists, skipping save",
				zap.String("partition", p.String()),
				zap.String("card_id", c.ID),
			)
			result.Skipped++
			continue
		}
		ids[c.ID] = struct{}{}
		existing = append(existing, c)
		result.Saved++
	}

	if result.Saved == 0 {
		return result
	}

	if !s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindCards, p): existing,
	}) {
		return SaveResult{Invalid: result.Invalid}
	}

	s.logger.Info("Cards saved",
		zap.String("partition", p.String()),
		zap.Int("saved", result.Saved),
		zap.Int("skipped", result.Skipped),
	)
	return result
}

// UpdateCard fully replaces the card with a matching id
func (s *CardService) UpdateCard(p domain.Partition, card domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return nil
	}
	if indexOfDeck(decks, card.DeckID) < 0 {
		return fmt.Errorf("%w: deck %q does not exist", domain.ErrValidation, card.DeckID)
	}

	cards, err := s.catalog.cards(p)
	if err != nil {
		return nil
	}

	idx := indexOfCard(cards, card.ID)
	if idx < 0 {
		s.logger.Warn("Card to update not found",
			zap.String("partition", p.String()),
			zap.String("card_id", card.ID),
		)
		return nil
	}

	cards[idx] = card
	s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindCards, p): cards,
	})
	return nil
}

// RecordReview applies rating to the stored version of the card and persists
// the result. The stored version is used so edits made since the card was
// read are kept.
func (s *CardService) RecordReview(p domain.Partition, id string, rating domain.Rating, cfg domain.RepetitionConfig) (domain.Flashcard, error) {
	if !rating.IsValid() {
		return domain.Flashcard{}, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(rating))
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	cards, err := s.catalog.cards(p)
	if err != nil {
		return domain.Flashcard{}, nil
	}

	idx := indexOfCard(cards, id)
	if idx < 0 {
		s.logger.Warn("Reviewed card no longer exists",
			zap.String("partition", p.String()),
			zap.String("card_id", id),
		)
		return domain.Flashcard{}, fmt.Errorf("%w: card %q", domain.ErrNotFound, id)
	}

	updated, err := scheduler.ScheduleNext(cards[idx], rating, cfg, s.catalog.now())
	if err != nil {
		return domain.Flashcard{}, err
	}

	cards[idx] = updated
	s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindCards, p): cards,
	})

	s.logger.Debug("Card reviewed",
		zap.String("card_id", id),
		zap.String("rating", rating.String()),
		zap.Int("repetition_level", updated.RepetitionLevel),
	)
	return updated, nil
}

// DeleteCards removes cards by id. Reviewed cards leave their words in the
// partition's deleted-word record. Returns the number removed.
func (s *CardService) DeleteCards(p domain.Partition, ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	cards, err := s.catalog.cards(p)
	if err != nil {
		return 0
	}
	deleted, err := s.catalog.deletedWords(p)
	if err != nil {
		return 0
	}

	toDelete := toSet(ids)
	kept := make([]domain.Flashcard, 0, len(cards))
	removed, recorded := 0, 0
	for _, c := range cards {
		if _, ok := toDelete[c.ID]; !ok {
			kept = append(kept, c)
			continue
		}
		removed++
		if c.Reviewed() {
			deleted = append(deleted, domain.DeletedWord{NativeWord: c.NativeWord, TargetWord: c.TargetWord})
			recorded++
		}
	}

	if removed == 0 {
		s.logger.Warn("No cards matched for deletion", zap.String("partition", p.String()), zap.Strings("ids", ids))
		return 0
	}

	values := map[repository.Key]any{
		repository.PartitionKey(repository.KindCards, p): kept,
	}
	if recorded > 0 {
		values[repository.PartitionKey(repository.KindDeletedWords, p)] = deleted
	}
	if !s.catalog.commit(values) {
		return 0
	}

	s.logger.Info("Cards deleted",
		zap.String("partition", p.String()),
		zap.Int("removed", removed),
		zap.Int("recorded_as_deleted", recorded),
	)
	return removed
}

// ListCards returns cards of the partition, optionally only those of deckID
func (s *CardService) ListCards(p domain.Partition, deckID string) []domain.Flashcard {
	cards, err := s.catalog.cards(p)
	if err != nil {
		return []domain.Flashcard{}
	}

	result := make([]domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		if deckID == "" || c.DeckID == deckID {
			result = append(result, c)
		}
	}
	return result
}

// GetCard returns the card with id
func (s *CardService) GetCard(p domain.Partition, id string) (domain.Flashcard, bool) {
	cards := s.ListCards(p, "")
	if idx := indexOfCard(cards, id); idx >= 0 {
		return cards[idx], true
	}
	return domain.Flashcard{}, false
}

// DueCards returns cards that were never rated or whose next review has passed
func (s *CardService) DueCards(p domain.Partition, deckID string) []domain.Flashcard {
	now := s.catalog.now()

	var due []domain.Flashcard
	for _, c := range s.ListCards(p, deckID) {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}
	if due == nil {
		return []domain.Flashcard{}
	}
	return due
}

// MoveCards reassigns cards to targetDeckID. Returns the number moved.
func (s *CardService) MoveCards(p domain.Partition, ids []string, targetDeckID string) (int, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return 0, nil
	}
	if indexOfDeck(decks, targetDeckID) < 0 {
		return 0, fmt.Errorf("%w: deck %q does not exist", domain.ErrValidation, targetDeckID)
	}

	cards, err := s.catalog.cards(p)
	if err != nil {
		return 0, nil
	}

	toMove := toSet(ids)
	moved := 0
	for i := range cards {
		if _, ok := toMove[cards[i].ID]; ok {
			cards[i].DeckID = targetDeckID
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}

	if !s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindCards, p): cards,
	}) {
		return 0, nil
	}
	return moved, nil
}

// CountByDeck returns the number of cards per deck id. Cards whose deck is
// missing are counted under domain.UnassignedDeck.
func (s *CardService) CountByDeck(p domain.Partition) map[string]int {
	counts := make(map[string]int)

	decks, err := s.catalog.decks(p)
	if err != nil {
		return counts
	}
	known := make(map[string]struct{}, len(decks))
	for _, d := range decks {
		known[d.ID] = struct{}{}
	}

	for _, c := range s.ListCards(p, "") {
		if _, ok := known[c.DeckID]; ok {
			counts[c.DeckID]++
		} else {
			counts[domain.UnassignedDeck]++
		}
	}
	return counts
}

func indexOfCard(cards []domain.Flashcard, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

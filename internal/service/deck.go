package service

import (
	"fmt"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeckService manages decks inside a partition
type DeckService struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewDeckService creates a new deck service
func NewDeckService(catalog *Catalog) *DeckService {
	return &DeckService{
		catalog: catalog,
		logger:  catalog.logger,
	}
}

// CreateDeck appends a new deck to the partition. A zero Deck with a nil
// error means the write was dropped; see Catalog.Health.
func (s *DeckService) CreateDeck(p domain.Partition, name, description string) (domain.Deck, error) {
	if err := p.Validate(); err != nil {
		return domain.Deck{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Deck{}, fmt.Errorf("%w: deck name cannot be empty", domain.ErrValidation)
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return domain.Deck{}, nil
	}

	now := s.catalog.now()
	deck := domain.Deck{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	decks = append(decks, deck)
	if !s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindDecks, p): decks,
	}) {
		return domain.Deck{}, nil
	}

	s.logger.Info("Deck created",
		zap.String("partition", p.String()),
		zap.String("deck_id", deck.ID),
		zap.String("name", deck.Name),
	)
	return deck, nil
}

// UpdateDeck replaces the deck with a matching id and bumps UpdatedAt
func (s *DeckService) UpdateDeck(p domain.Partition, deck domain.Deck) error {
	deck.Name = strings.TrimSpace(deck.Name)
	if deck.Name == "" {
		return fmt.Errorf("%w: deck name cannot be empty", domain.ErrValidation)
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return nil
	}

	idx := indexOfDeck(decks, deck.ID)
	if idx < 0 {
		s.logger.Warn("Deck to update not found",
			zap.String("partition", p.String()),
			zap.String("deck_id", deck.ID),
		)
		return nil
	}

	deck.CreatedAt = decks[idx].CreatedAt
	deck.UpdatedAt = s.catalog.now()
	decks[idx] = deck

	s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindDecks, p): decks,
	})
	return nil
}

// DeleteDeck removes a deck together with all of its cards in one write.
// Returns the number of cards removed.
func (s *DeckService) DeleteDeck(p domain.Partition, id string) int {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	decks, err := s.catalog.decks(p)
	if err != nil {
		return 0
	}
	idx := indexOfDeck(decks, id)
	if idx < 0 {
		s.logger.Warn("Deck to delete not found",
			zap.String("partition", p.String()),
			zap.String("deck_id", id),
		)
		return 0
	}

	cards, err := s.catalog.cards(p)
	if err != nil {
		return 0
	}
	deleted, err := s.catalog.deletedWords(p)
	if err != nil {
		return 0
	}

	kept := make([]domain.Flashcard, 0, len(cards))
	removed := 0
	for _, c := range cards {
		if c.DeckID != id {
			kept = append(kept, c)
			continue
		}
		removed++
		if c.Reviewed() {
			deleted = append(deleted, domain.DeletedWord{NativeWord: c.NativeWord, TargetWord: c.TargetWord})
		}
	}

	remaining := append(decks[:idx:idx], decks[idx+1:]...)

	values := map[repository.Key]any{
		repository.PartitionKey(repository.KindDecks, p): remaining,
		repository.PartitionKey(repository.KindCards, p): kept,
	}
	if len(deleted) > 0 {
		values[repository.PartitionKey(repository.KindDeletedWords, p)] = deleted
	}
	if !s.catalog.commit(values) {
		return 0
	}

	s.logger.Info("Deck deleted",
		zap.String("partition", p.String()),
		zap.String("deck_id", id),
		zap.Int("cards_removed", removed),
	)
	return removed
}

// ListDecks returns decks in insertion order
func (s *DeckService) ListDecks(p domain.Partition) []domain.Deck {
	decks, err := s.catalog.decks(p)
	if err != nil || decks == nil {
		return []domain.Deck{}
	}
	return decks
}

// GetDeck returns the deck with id
func (s *DeckService) GetDeck(p domain.Partition, id string) (domain.Deck, bool) {
	decks := s.ListDecks(p)
	if idx := indexOfDeck(decks, id); idx >= 0 {
		return decks[idx], true
	}
	return domain.Deck{}, false
}

func indexOfDeck(decks []domain.Deck, id string) int {
	for i, d := range decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}

package service

import (
	"context"
	"fmt"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/generator"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// GenerationService turns prompts into saved flashcards
type GenerationService struct {
	decks     *DeckService
	cards     *CardService
	history   *HistoryService
	generator generator.Generator
	logger    *zap.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	decks *DeckService,
	cards *CardService,
	history *HistoryService,
	gen generator.Generator,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		decks:     decks,
		cards:     cards,
		history:   history,
		generator: gen,
		logger:    logger,
	}
}

// Generate asks the generator for cards and saves them into deckID.
// A failing generator produces no cards and no error.
func (s *GenerationService) Generate(ctx context.Context, p domain.Partition, deckID, prompt string) (SaveResult, error) {
	if err := p.Validate(); err != nil {
		return SaveResult{}, err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return SaveResult{}, fmt.Errorf("%w: prompt cannot be empty", domain.ErrValidation)
	}
	if _, ok := s.decks.GetDeck(p, deckID); !ok {
		return SaveResult{}, fmt.Errorf("%w: deck %q does not exist", domain.ErrValidation, deckID)
	}

	s.history.RecordPrompt(prompt, p)
	if err := s.history.RecordLanguagePair(p); err != nil {
		return SaveResult{}, err
	}

	avoid := s.history.WordsToAvoid(p)
	candidates, err := s.generator.Generate(ctx, p, prompt, avoid)
	if err != nil {
		s.logger.Warn("Generation produced no cards",
			zap.String("partition", p.String()),
			zap.String("prompt", prompt),
			zap.Error(err),
		)
		return SaveResult{}, nil
	}

	known := make(map[string]struct{}, len(avoid))
	for _, w := range avoid {
		known[strings.ToLower(w)] = struct{}{}
	}

	var result SaveResult
	fresh := make([]domain.Flashcard, 0, len(candidates))
	for _, c := range candidates {
		word := strings.ToLower(strings.TrimSpace(c.AvoidWord(p)))
		if _, dup := known[word]; dup && word != "" {
			s.logger.Debug("Dropping generated card already known", zap.String("word", word))
			result.Skipped++
			continue
		}
		known[word] = struct{}{}

		// Model-provided ids are placeholders and collide across batches.
		id, err := gonanoid.New()
		if err != nil {
			return result, fmt.Errorf("failed to generate card id: %w", err)
		}
		c.ID = id
		c.LastReviewed = nil
		c.NextReview = nil
		c.RepetitionLevel = 0
		fresh = append(fresh, c)
	}

	saved, err := s.cards.SaveCards(p, deckID, fresh)
	if err != nil {
		return result, err
	}

	result.Saved = saved.Saved
	result.Skipped += saved.Skipped
	result.Invalid = saved.Invalid

	s.logger.Info("Generated cards saved",
		zap.String("partition", p.String()),
		zap.String("deck_id", deckID),
		zap.Int("saved", result.Saved),
		zap.Int("skipped", result.Skipped),
		zap.Int("invalid", result.Invalid),
	)
	return result, nil
}

// Suggest returns prompt ideas for p based on its history
func (s *GenerationService) Suggest(ctx context.Context, p domain.Partition) []string {
	suggester, ok := s.generator.(generator.Suggester)
	if !ok {
		return generator.DefaultSuggestions
	}

	suggestions, err := suggester.SuggestPrompts(ctx, p, s.history.PromptHistoryFor(p))
	if err != nil || len(suggestions) == 0 {
		return generator.DefaultSuggestions
	}
	return suggestions
}

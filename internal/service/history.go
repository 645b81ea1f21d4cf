package service

import (
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"go.uber.org/zap"
)

// HistoryService tracks prompt history, recently used language pairs,
// deleted vocabulary and the global settings blobs
type HistoryService struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(catalog *Catalog) *HistoryService {
	return &HistoryService{
		catalog: catalog,
		logger:  catalog.logger,
	}
}

// WordsToAvoid returns the words of current cards plus previously deleted
// reviewed cards, for the generator's do-not-repeat hint
func (s *HistoryService) WordsToAvoid(p domain.Partition) []string {
	seen := make(map[string]struct{})
	words := []string{}
	add := func(w string) {
		w = strings.TrimSpace(w)
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	cards, _ := s.catalog.cards(p)
	for _, c := range cards {
		add(c.AvoidWord(p))
	}

	deleted, _ := s.catalog.deletedWords(p)
	for _, d := range deleted {
		add(d.AvoidWord(p))
	}

	return words
}

// DeletedWords returns the deleted-word record of a partition
func (s *HistoryService) DeletedWords(p domain.Partition) []domain.DeletedWord {
	words, err := s.catalog.deletedWords(p)
	if err != nil || words == nil {
		return []domain.DeletedWord{}
	}
	return words
}

// ClearDeletedCards drops the deleted-word record so that the vocabulary
// can be generated again
func (s *HistoryService) ClearDeletedCards(p domain.Partition) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	if s.catalog.commit(map[repository.Key]any{
		repository.PartitionKey(repository.KindDeletedWords, p): nil,
	}) {
		s.logger.Info("Deleted-card record cleared", zap.String("partition", p.String()))
	}
}

// RecordPrompt moves prompt to the front of the history, keeping the newest
// domain.MaxPromptHistory entries
func (s *HistoryService) RecordPrompt(prompt string, p domain.Partition) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	key := repository.GlobalKey(repository.KindPromptHistory)
	var history []domain.PromptHistoryEntry
	if err := s.catalog.load(key, &history); err != nil {
		return
	}

	updated := []domain.PromptHistoryEntry{{Prompt: prompt, Partition: p, Timestamp: s.catalog.now()}}
	for _, h := range history {
		if h.Prompt == prompt && h.Partition == p {
			continue
		}
		updated = append(updated, h)
	}
	if len(updated) > domain.MaxPromptHistory {
		updated = updated[:domain.MaxPromptHistory]
	}

	s.catalog.commit(map[repository.Key]any{key: updated})
}

// PromptHistory returns all recorded prompts, newest first
func (s *HistoryService) PromptHistory() []domain.PromptHistoryEntry {
	var history []domain.PromptHistoryEntry
	if err := s.catalog.load(repository.GlobalKey(repository.KindPromptHistory), &history); err != nil || history == nil {
		return []domain.PromptHistoryEntry{}
	}
	return history
}

// PromptHistoryFor returns the prompts used with p, falling back to the whole
// history when p has none
func (s *HistoryService) PromptHistoryFor(p domain.Partition) []domain.PromptHistoryEntry {
	all := s.PromptHistory()

	var matching []domain.PromptHistoryEntry
	for _, h := range all {
		if h.Partition == p {
			matching = append(matching, h)
		}
	}
	if len(matching) == 0 {
		return all
	}
	return matching
}

// RecordLanguagePair moves p to the front of the recent pairs list
func (s *HistoryService) RecordLanguagePair(p domain.Partition) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	key := repository.GlobalKey(repository.KindRecentPairs)
	var pairs []domain.LanguagePairEntry
	if err := s.catalog.load(key, &pairs); err != nil {
		return nil
	}

	updated := []domain.LanguagePairEntry{{Partition: p, UsedAt: s.catalog.now()}}
	for _, e := range pairs {
		if e.Partition != p {
			updated = append(updated, e)
		}
	}
	if len(updated) > domain.MaxRecentPairs {
		updated = updated[:domain.MaxRecentPairs]
	}

	s.catalog.commit(map[repository.Key]any{key: updated})
	return nil
}

// RecentLanguagePairs returns recently used partitions, newest first
func (s *HistoryService) RecentLanguagePairs() []domain.LanguagePairEntry {
	var pairs []domain.LanguagePairEntry
	if err := s.catalog.load(repository.GlobalKey(repository.KindRecentPairs), &pairs); err != nil || pairs == nil {
		return []domain.LanguagePairEntry{}
	}
	return pairs
}

// Partitions enumerates every partition that holds decks or cards
func (s *HistoryService) Partitions() []domain.Partition {
	seen := make(map[domain.Partition]struct{})
	var partitions []domain.Partition

	for _, kind := range []repository.Kind{repository.KindDecks, repository.KindCards} {
		found, err := s.catalog.store.Partitions(kind)
		if err != nil {
			s.logger.Error("Failed to list partitions", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		for _, p := range found {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				partitions = append(partitions, p)
			}
		}
	}

	if partitions == nil {
		return []domain.Partition{}
	}
	return partitions
}

// RepetitionConfig returns the saved intervals or the defaults
func (s *HistoryService) RepetitionConfig() domain.RepetitionConfig {
	cfg := domain.DefaultRepetitionConfig
	var saved domain.RepetitionConfig
	if err := s.catalog.load(repository.GlobalKey(repository.KindRepetitionConfig), &saved); err != nil {
		return cfg
	}
	if saved.Validate() != nil {
		return cfg
	}
	return saved
}

// SetRepetitionConfig saves user-defined intervals
func (s *HistoryService) SetRepetitionConfig(cfg domain.RepetitionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	s.catalog.commit(map[repository.Key]any{
		repository.GlobalKey(repository.KindRepetitionConfig): cfg,
	})
	return nil
}

// APIKey returns the saved generator API key, or "" when none is saved
func (s *HistoryService) APIKey() string {
	var key string
	_ = s.catalog.load(repository.GlobalKey(repository.KindAPIKey), &key)
	return key
}

// SetAPIKey saves an opaque generator API key. An empty key removes it.
func (s *HistoryService) SetAPIKey(key string) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	var value any
	if key = strings.TrimSpace(key); key != "" {
		value = key
	}
	s.catalog.commit(map[repository.Key]any{
		repository.GlobalKey(repository.KindAPIKey): value,
	})
}

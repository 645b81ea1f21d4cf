package service

import (
	"sort"
	"time"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
)

// DeckSummary holds card totals for one deck
type DeckSummary struct {
	Deck  domain.Deck `json:"deck" yaml:"deck"`
	Total int         `json:"total" yaml:"total"`
	Due   int         `json:"due" yaml:"due"`
}

// StatsService aggregates deck and review statistics
type StatsService struct {
	decks  *DeckService
	cards  *CardService
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(decks *DeckService, cards *CardService, logger *zap.Logger) *StatsService {
	return &StatsService{
		decks:  decks,
		cards:  cards,
		logger: logger,
	}
}

// Summary returns totals per deck in deck order. Cards without a deck are
// reported last under a synthetic deck with id domain.UnassignedDeck.
func (s *StatsService) Summary(p domain.Partition) []DeckSummary {
	decks := s.decks.ListDecks(p)
	counts := s.cards.CountByDeck(p)

	due := make(map[string]int)
	known := make(map[string]struct{}, len(decks))
	for _, d := range decks {
		known[d.ID] = struct{}{}
	}
	for _, c := range s.cards.DueCards(p, "") {
		if _, ok := known[c.DeckID]; ok {
			due[c.DeckID]++
		} else {
			due[domain.UnassignedDeck]++
		}
	}

	summaries := make([]DeckSummary, 0, len(decks)+1)
	for _, d := range decks {
		summaries = append(summaries, DeckSummary{Deck: d, Total: counts[d.ID], Due: due[d.ID]})
	}
	if n := counts[domain.UnassignedDeck]; n > 0 {
		summaries = append(summaries, DeckSummary{
			Deck:  domain.Deck{ID: domain.UnassignedDeck, Name: "Unassigned"},
			Total: n,
			Due:   due[domain.UnassignedDeck],
		})
	}

	return summaries
}

// Forecast returns the number of cards falling due on each of the next days,
// starting today. Overdue and never-reviewed cards count towards today.
func (s *StatsService) Forecast(p domain.Partition, days int) []domain.Day {
	if days < 1 {
		days = 1
	}

	now := s.cards.catalog.now()
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	buckets := make([]domain.Day, days)
	for i := range buckets {
		buckets[i].Date = today.AddDate(0, 0, i)
	}

	for _, c := range s.cards.ListCards(p, "") {
		if c.IsDue(now) {
			buckets[0].CardCount++
			continue
		}
		next := c.NextReview.In(loc)
		day := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, loc)
		idx := sort.Search(len(buckets), func(i int) bool { return !buckets[i].Date.Before(day) })
		if idx < len(buckets) && buckets[idx].Date.Equal(day) {
			buckets[idx].CardCount++
		}
	}

	s.logger.Debug("Forecast computed", zap.String("partition", p.String()), zap.Int("days", days))
	return buckets
}

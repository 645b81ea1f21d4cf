package service

import (
	"testing"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository/memory"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.KVStore
	clock   *testutil.Clock
	catalog *Catalog
	decks   *DeckService
	cards   *CardService
	history *HistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewKVStore()
	clock := testutil.NewClock(t0)
	catalog := NewCatalog(store, testutil.NewTestLogger(), WithClock(clock.Now))

	return &fixture{
		store:   store,
		clock:   clock,
		catalog: catalog,
		decks:   NewDeckService(catalog),
		cards:   NewCardService(catalog),
		history: NewHistoryService(catalog),
	}
}

func (f *fixture) deck(t *testing.T, p domain.Partition, name string) domain.Deck {
	t.Helper()
	d, err := f.decks.CreateDeck(p, name, "")
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)
	return d
}

func (f *fixture) add(t *testing.T, p domain.Partition, card domain.Flashcard) {
	t.Helper()
	res, err := f.cards.AddCard(p, card)
	require.NoError(t, err)
	require.Equal(t, 1, res.Saved)
}

func ids(cards []domain.Flashcard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

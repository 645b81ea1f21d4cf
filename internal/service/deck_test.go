package service

import (
	"testing"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckService_CreateDeck(t *testing.T) {
	tests := []struct {
		name          string
		partition     domain.Partition
		deckName      string
		expectedError bool
	}{
		{
			name:      "valid deck",
			partition: testutil.NewTestPartition(),
			deckName:  "Basics",
		},
		{
			name:          "blank name",
			partition:     testutil.NewTestPartition(),
			deckName:      "   ",
			expectedError: true,
		},
		{
			name:          "missing partition",
			partition:     domain.Partition{},
			deckName:      "Basics",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			deck, err := f.decks.CreateDeck(tt.partition, tt.deckName, " first words ")

			if tt.expectedError {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Empty(t, f.decks.ListDecks(tt.partition))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, deck.ID)
			assert.Equal(t, "Basics", deck.Name)
			assert.Equal(t, "first words", deck.Description)
			assert.Equal(t, t0, deck.CreatedAt)
			assert.Equal(t, t0, deck.UpdatedAt)
		})
	}
}

func TestDeckService_ListDecks_InsertionOrder(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()

	a := f.deck(t, p, "Zoo")
	b := f.deck(t, p, "Animals")
	c := f.deck(t, p, "Kitchen")

	decks := f.decks.ListDecks(p)
	require.Len(t, decks, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{decks[0].ID, decks[1].ID, decks[2].ID})
}

func TestDeckService_ListDecks_EmptyPartition(t *testing.T) {
	f := newFixture(t)

	decks := f.decks.ListDecks(testutil.NewTestPartition())

	assert.NotNil(t, decks)
	assert.Empty(t, decks)
}

func TestDeckService_UpdateDeck(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	deck := f.deck(t, p, "Basics")

	f.clock.Advance(time.Hour)
	deck.Name = "Basics 2"
	deck.Description = "renamed"
	deck.CreatedAt = time.Time{}
	require.NoError(t, f.decks.UpdateDeck(p, deck))

	got, ok := f.decks.GetDeck(p, deck.ID)
	require.True(t, ok)
	assert.Equal(t, "Basics 2", got.Name)
	assert.Equal(t, "renamed", got.Description)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
}

func TestDeckService_UpdateDeck_NotFoundIsNoOp(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	f.deck(t, p, "Basics")

	err := f.decks.UpdateDeck(p, domain.Deck{ID: "missing", Name: "Ghost"})

	assert.NoError(t, err)
	decks := f.decks.ListDecks(p)
	require.Len(t, decks, 1)
	assert.Equal(t, "Basics", decks[0].Name)
}

func TestDeckService_UpdateDeck_BlankName(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	deck := f.deck(t, p, "Basics")

	deck.Name = ""
	assert.ErrorIs(t, f.decks.UpdateDeck(p, deck), domain.ErrValidation)
}

func TestDeckService_DeleteDeck_Cascades(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	basics := f.deck(t, p, "Basics")
	food := f.deck(t, p, "Food")

	f.add(t, p, testutil.NewTestCard("b1", basics.ID, "hello", "bonjour"))
	f.add(t, p, testutil.NewTestCard("b2", basics.ID, "yes", "oui"))
	f.add(t, p, testutil.NewTestCard("b3", basics.ID, "no", "non"))
	f.add(t, p, testutil.NewTestCard("f1", food.ID, "bread", "pain"))
	f.add(t, p, testutil.NewTestCard("f2", food.ID, "cheese", "fromage"))

	removed := f.decks.DeleteDeck(p, basics.ID)

	assert.Equal(t, 3, removed)
	assert.ElementsMatch(t, []string{"f1", "f2"}, ids(f.cards.ListCards(p, "")))
	_, ok := f.decks.GetDeck(p, basics.ID)
	assert.False(t, ok)
	assert.Len(t, f.decks.ListDecks(p), 1)
}

func TestDeckService_DeleteDeck_RecordsReviewedWords(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	deck := f.deck(t, p, "Basics")

	f.add(t, p, testutil.NewReviewedCard("r1", deck.ID, "cat", "chat", t0, t0.Add(time.Hour)))
	f.add(t, p, testutil.NewTestCard("n1", deck.ID, "dog", "chien"))

	f.decks.DeleteDeck(p, deck.ID)

	assert.Equal(t, []domain.DeletedWord{{NativeWord: "cat", TargetWord: "chat"}}, f.history.DeletedWords(p))
}

func TestDeckService_DeleteDeck_UnknownIsNoOp(t *testing.T) {
	f := newFixture(t)
	p := testutil.NewTestPartition()
	deck := f.deck(t, p, "Basics")
	f.add(t, p, testutil.NewTestCard("c1", deck.ID, "hello", "bonjour"))

	assert.Equal(t, 0, f.decks.DeleteDeck(p, "missing"))
	assert.Len(t, f.cards.ListCards(p, ""), 1)
}

func TestDeckService_PartitionIsolation(t *testing.T) {
	f := newFixture(t)
	fr := domain.NewPartition("English", "French")
	de := domain.NewPartition("English", "German")

	deck := f.deck(t, fr, "Basics")
	f.add(t, fr, testutil.NewTestCard("x", deck.ID, "hello", "bonjour"))

	assert.Empty(t, f.decks.ListDecks(de))
	assert.Empty(t, f.cards.ListCards(de, ""))

	// Same deck name in another partition is a different deck
	other := f.deck(t, de, "Basics")
	assert.NotEqual(t, deck.ID, other.ID)

	// The foreign deck id cannot be used to save into the other partition
	_, err := f.cards.AddCard(de, testutil.NewTestCard("x", deck.ID, "hello", "hallo"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.add(t, de, testutil.NewTestCard("x", other.ID, "hello", "hallo"))
	assert.Equal(t, "bonjour", f.cards.ListCards(fr, "")[0].TargetWord)
	assert.Equal(t, "hallo", f.cards.ListCards(de, "")[0].TargetWord)
}

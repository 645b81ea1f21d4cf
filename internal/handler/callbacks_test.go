package handler

import (
	"strings"
	"testing"

	"flashdeck/internal/domain"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"telebot prefix", "\fdeck_d1", "deck_d1"},
		{"surrounding whitespace", "  rate_good  ", "rate_good"},
		{"control characters", "pair_English\x00|French\x01", "pair_English|French"},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCallbackData(tt.input))
		})
	}
}

func TestHandler_HandleCallback(t *testing.T) {
	p := domain.NewPartition("English", "French")

	startReview := func(t *testing.T, h *Handler) {
		press(h.handleReview, "")
		require.NotNil(t, h.session(testUserID))
	}
	revealCard := func(t *testing.T, h *Handler) {
		startReview(t, h)
		press(h.handleShowAnswer, "")
	}

	tests := []struct {
		name     string
		unique   string
		data     string // {deck} is replaced with the selected deck id
		prepare  func(t *testing.T, h *Handler)
		sent     string
		response string
		state    domain.UserState
	}{
		{name: "choose pair fallback", data: "choose_pair", sent: "Pick a recent pair", state: domain.StateWaitingPair},
		{name: "decks fallback", data: "decks", sent: "Decks for English → French", state: domain.StateIdle},
		{name: "new deck fallback", data: "new_deck", sent: "name for the new deck", state: domain.StateWaitingDeckName},
		{name: "add card fallback", data: "add_card", sent: "Send a English word", state: domain.StateWaitingWord},
		{name: "review fallback", data: "review", sent: "hello", state: domain.StateReviewing},
		{name: "show answer fallback", data: "show_answer", prepare: startReview, sent: "bonjour", state: domain.StateReviewing},
		{name: "show answer without session", data: "show_answer", response: "No review in progress", state: domain.StateIdle},
		{name: "end review fallback", data: "end_review", prepare: startReview, sent: "Review ended after 0 of 1 cards", state: domain.StateIdle},
		{name: "stats fallback", data: "stats", sent: "📊 English → French", state: domain.StateIdle},
		{name: "cancel fallback", data: "cancel", sent: "Main menu", state: domain.StateIdle},
		{name: "main menu fallback", data: "main_menu", sent: "Main menu", state: domain.StateIdle},
		{name: "pair prefix", data: "\fpair_German|Spanish", sent: "Switched to German → Spanish", state: domain.StateIdle},
		{name: "malformed pair", data: "\fpair_German", response: "Unknown language pair", state: domain.StateIdle},
		{name: "deck prefix", data: "\fdeck_{deck}", sent: "Selected «Basics»", state: domain.StateIdle},
		{name: "unknown deck", data: "\fdeck_missing", response: "Deck not found", state: domain.StateIdle},
		{name: "rate prefix", data: "\frate_good", prepare: revealCard, sent: "Review complete", state: domain.StateIdle},
		{name: "rate before reveal", data: "\frate_good", prepare: startReview, response: "Show the answer first", state: domain.StateReviewing},
		{name: "unknown rating", data: "\frate_perfect", prepare: revealCard, response: "Unknown rating", state: domain.StateReviewing},
		{name: "rate without session", data: "\frate_good", response: "No review in progress", state: domain.StateIdle},
		{name: "routed unique is not a fallback", unique: "stats", data: "stats", state: domain.StateIdle},
		{name: "unhandled data", data: "\fnothing_here", state: domain.StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler(t)
			require.NoError(t, svc.Auth.AuthorizeUser(testUserID))
			deck, err := svc.Decks.CreateDeck(p, "Basics", "")
			require.NoError(t, err)
			_, err = svc.Cards.AddCard(p, testutil.NewTestCard("c1", deck.ID, "hello", "bonjour"))
			require.NoError(t, err)
			h.SetState(testUserID, &domain.StateData{State: domain.StateIdle, Partition: p, DeckID: deck.ID})

			if tt.prepare != nil {
				tt.prepare(t, h)
			}

			c := &fakeContext{callback: &tele.Callback{
				ID:     "cb",
				Unique: tt.unique,
				Data:   strings.ReplaceAll(tt.data, "{deck}", deck.ID),
			}}
			require.NoError(t, h.handleCallback(c))

			if tt.sent != "" {
				assert.Contains(t, c.last(), tt.sent)
			} else {
				assert.Empty(t, c.sent)
			}
			if tt.response != "" {
				assert.Equal(t, []string{tt.response}, c.responses)
			}
			assert.Equal(t, tt.state, h.GetState(testUserID).State)
		})
	}
}

package handler

import (
	"errors"
	"fmt"
	"strings"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Check authorization first
	authorized, err := h.svc.Auth.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	// If not authorized, check password
	if !authorized {
		if !h.svc.Auth.CheckPassword(text) {
			return c.Send("❌ Wrong password")
		}
		if err := h.svc.Auth.AuthorizeUser(userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(msgError)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.ResetState(userID)
		return h.showMenu(c, "✅ Access granted!")
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingPair:
		return h.selectPairFromText(c, state, text)

	case domain.StateWaitingDeckName:
		return h.createDeckFromText(c, state, text)

	case domain.StateWaitingTranslation:
		return h.saveCardFromText(c, state, text)

	case domain.StateReviewing:
		return c.Send("Finish or end the current review first.")

	default:
		// Idle or waiting for a word: start a new card with this word
		if state.Partition.IsZero() {
			state.State = domain.StateWaitingPair
			h.SetState(userID, state)
			return c.Send(pairPrompt, cancelMarkup())
		}
		if state.DeckID == "" {
			state.State = domain.StateWaitingDeckName
			h.SetState(userID, state)
			return c.Send("You have no deck selected. Send a name for a new deck:", cancelMarkup())
		}

		state.State = domain.StateWaitingTranslation
		state.CurrentWord = text
		h.SetState(userID, state)
		return c.Send(fmt.Sprintf("Send the %s for «%s»", answerNoun(state.Partition), text), cancelMarkup())
	}
}

func (h *Handler) selectPairFromText(c tele.Context, state *domain.StateData, text string) error {
	p, err := parsePair(text)
	if err != nil {
		return c.Send("Could not read that pair. "+pairPrompt, cancelMarkup())
	}
	return h.selectPair(c, state, p)
}

// selectPair switches the user to partition p and remembers it as recent
func (h *Handler) selectPair(c tele.Context, state *domain.StateData, p domain.Partition) error {
	userID := c.Sender().ID

	if err := h.svc.History.RecordLanguagePair(p); err != nil {
		h.logger.Warn("Invalid language pair", zap.Error(err))
		return c.Send(pairPrompt, cancelMarkup())
	}

	h.endSession(userID)
	h.SetState(userID, &domain.StateData{
		State:     domain.StateIdle,
		Partition: p,
		DeckID:    firstDeckID(h.svc.Decks.ListDecks(p)),
	})

	h.logger.Info("Language pair selected", zap.Int64("user_id", userID), zap.String("partition", p.String()))
	return h.showMenu(c, "🌍 Switched to "+p.String())
}

func (h *Handler) createDeckFromText(c tele.Context, state *domain.StateData, text string) error {
	userID := c.Sender().ID

	deck, err := h.svc.Decks.CreateDeck(state.Partition, text, "")
	if errors.Is(err, domain.ErrValidation) {
		return c.Send("Deck name cannot be empty. Send a name:", cancelMarkup())
	}
	if err != nil || deck.ID == "" {
		h.logger.Error("Failed to create deck", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgError)
	}

	h.SetState(userID, &domain.StateData{
		State:     domain.StateWaitingWord,
		Partition: state.Partition,
		DeckID:    deck.ID,
	})
	return c.Send(fmt.Sprintf("✅ Deck «%s» created.\n\nSend a %s word to add a card:", deck.Name, state.Partition.Native), cancelMarkup())
}

func (h *Handler) saveCardFromText(c tele.Context, state *domain.StateData, text string) error {
	userID := c.Sender().ID

	card := domain.Flashcard{
		NativeWord: state.CurrentWord,
		TargetWord: text,
		DeckID:     state.DeckID,
	}
	res, err := h.svc.Cards.AddCard(state.Partition, card)
	if err != nil {
		h.logger.Warn("Failed to save card", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Could not save the card. Please try again.", cancelMarkup())
	}
	if res.Saved == 0 {
		return c.Send(msgError)
	}

	h.logger.Info("Card saved",
		zap.Int64("user_id", userID),
		zap.String("partition", state.Partition.String()),
		zap.String("native_word", card.NativeWord),
	)

	// Wait for the next word
	state.State = domain.StateWaitingWord
	state.CurrentWord = ""
	h.SetState(userID, state)

	return c.Send("✅ Saved!\n\nSend the next word or go back with /start", cancelMarkup())
}

func firstDeckID(decks []domain.Deck) string {
	if len(decks) == 0 {
		return ""
	}
	return decks[0].ID
}

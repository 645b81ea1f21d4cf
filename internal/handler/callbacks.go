package handler

import (
	"fmt"
	"strings"
	"unicode"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	deckDataPrefix = "deck_"
	rateDataPrefix = "rate_"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Another callback already edited the message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callbacks that were not routed by their unique
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Buttons whose Unique did not come through
	if callback.Unique == "" {
		switch data {
		case btnChoosePair.Unique:
			return h.handleChoosePair(c)
		case btnDecks.Unique:
			return h.handleDecks(c)
		case btnNewDeck.Unique:
			return h.handleNewDeck(c)
		case btnAddCard.Unique:
			return h.handleAddCard(c)
		case btnReview.Unique:
			return h.handleReview(c)
		case btnShowAnswer.Unique:
			return h.handleShowAnswer(c)
		case btnEndReview.Unique:
			return h.handleEndReview(c)
		case btnStats.Unique:
			return h.handleStats(c)
		case btnCancel.Unique:
			return h.handleCancel(c)
		case btnMainMenu.Unique:
			return h.handleStart(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, pairDataPrefix):
		return h.handlePairSelection(c, data)
	case strings.HasPrefix(data, deckDataPrefix):
		return h.handleDeckSelection(c, strings.TrimPrefix(data, deckDataPrefix))
	case strings.HasPrefix(data, rateDataPrefix):
		return h.handleRate(c, strings.TrimPrefix(data, rateDataPrefix))
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleChoosePair lists recent pairs and waits for a typed one
func (h *Handler) handleChoosePair(c tele.Context) error {
	userID := c.Sender().ID

	state := h.GetState(userID)
	state.State = domain.StateWaitingPair
	h.SetState(userID, state)

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, e := range h.svc.History.RecentLanguagePairs() {
		data, ok := pairData(e.Partition)
		if !ok {
			continue
		}
		rows = append(rows, markup.Row(markup.Data(e.Partition.String(), data)))
	}
	rows = append(rows, markup.Row(btnCancel))
	markup.Inline(rows...)

	return h.reply(c, "🌍 Pick a recent pair.\n\n"+pairPrompt, markup)
}

func (h *Handler) handlePairSelection(c tele.Context, data string) error {
	p, ok := parsePairData(data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown language pair"})
	}
	return h.selectPair(c, h.GetState(c.Sender().ID), p)
}

// handleDecks shows the decks of the selected pair
func (h *Handler) handleDecks(c tele.Context) error {
	state := h.GetState(c.Sender().ID)
	if state.Partition.IsZero() {
		return h.handleChoosePair(c)
	}

	decks := h.svc.Decks.ListDecks(state.Partition)
	counts := h.svc.Cards.CountByDeck(state.Partition)

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, d := range decks {
		label := fmt.Sprintf("%s (%d)", d.Name, counts[d.ID])
		if d.ID == state.DeckID {
			label = "✅ " + label
		}
		rows = append(rows, markup.Row(markup.Data(label, deckDataPrefix+d.ID)))
	}
	rows = append(rows, markup.Row(btnNewDeck), markup.Row(btnMainMenu))
	markup.Inline(rows...)

	text := fmt.Sprintf("🗂 Decks for %s\n\nTap a deck to select it.", state.Partition)
	if len(decks) == 0 {
		text = fmt.Sprintf("🗂 No decks for %s yet.", state.Partition)
	}
	return h.reply(c, text, markup)
}

func (h *Handler) handleDeckSelection(c tele.Context, deckID string) error {
	userID := c.Sender().ID
	state := h.GetState(userID)

	deck, ok := h.svc.Decks.GetDeck(state.Partition, deckID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Deck not found"})
	}

	state.DeckID = deck.ID
	state.State = domain.StateIdle
	h.SetState(userID, state)
	return h.showMenu(c, "🗂 Selected «"+deck.Name+"»")
}

// handleNewDeck waits for a deck name
func (h *Handler) handleNewDeck(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Partition.IsZero() {
		return h.handleChoosePair(c)
	}

	state.State = domain.StateWaitingDeckName
	h.SetState(userID, state)
	return h.reply(c, "Send a name for the new deck:", cancelMarkup())
}

// handleAddCard starts the word then translation flow
func (h *Handler) handleAddCard(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Partition.IsZero() {
		return h.handleChoosePair(c)
	}
	if state.DeckID == "" {
		return h.handleNewDeck(c)
	}

	state.State = domain.StateWaitingWord
	h.SetState(userID, state)
	return h.reply(c, fmt.Sprintf("Send a %s word:", state.Partition.Native), cancelMarkup())
}

// handleStats shows deck totals and the upcoming review load
func (h *Handler) handleStats(c tele.Context) error {
	state := h.GetState(c.Sender().ID)
	if state.Partition.IsZero() {
		return h.handleChoosePair(c)
	}

	text := statsText(
		state.Partition,
		h.svc.Stats.Summary(state.Partition),
		h.svc.Stats.Forecast(state.Partition, 7),
	)
	return h.reply(c, text, backMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	h.endSession(userID)
	h.ResetState(userID)
	return h.showMenu(c, "")
}

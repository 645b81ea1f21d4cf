package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgPasswordPrompt = "👋 Hi! This bot is private. Send the password to continue:"
	msgError          = "Something went wrong. Please try again later."
	msgRateFailed     = "Could not save the rating. Please try again."
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Check if authorized
	authorized, err := h.svc.Auth.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	if !authorized {
		// Request password
		h.ResetState(userID)
		return c.Send(msgPasswordPrompt)
	}

	h.endSession(userID)
	h.ResetState(userID)
	return h.showMenu(c, "")
}

// showMenu renders the main menu with the current selection, editing the
// message when reached from a button
func (h *Handler) showMenu(c tele.Context, notice string) error {
	state := h.GetState(c.Sender().ID)
	deckName := ""
	if state.DeckID != "" {
		if deck, ok := h.svc.Decks.GetDeck(state.Partition, state.DeckID); ok {
			deckName = deck.Name
		}
	}

	text := menuText(state.Partition, deckName)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return h.reply(c, text, mainMenuMarkup())
}

// reply edits the callback's message or sends a new one
func (h *Handler) reply(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

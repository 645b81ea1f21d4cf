package handler

import (
	"errors"
	"fmt"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) session(userID int64) *service.ReviewSession {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	return h.sessions[userID]
}

func (h *Handler) endSession(userID int64) {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	if s, ok := h.sessions[userID]; ok {
		s.End()
		delete(h.sessions, userID)
	}
}

// handleReview starts a session over the due cards of the selected deck
func (h *Handler) handleReview(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Partition.IsZero() {
		return h.handleChoosePair(c)
	}

	h.endSession(userID)
	session := h.svc.Reviews.Start(state.Partition, state.DeckID)
	if session.State() == service.StateComplete {
		return h.showMenu(c, "🎉 Nothing is due right now.")
	}

	h.sessionMux.Lock()
	h.sessions[userID] = session
	h.sessionMux.Unlock()

	state.State = domain.StateReviewing
	h.SetState(userID, state)

	h.logger.Info("Review started", zap.Int64("user_id", userID), zap.String("partition", state.Partition.String()))
	return h.presentCard(c, session, "")
}

// presentCard shows the current card or the completion message
func (h *Handler) presentCard(c tele.Context, session *service.ReviewSession, notice string) error {
	card, side, ok := session.Current()
	if !ok {
		userID := c.Sender().ID
		h.endSession(userID)
		h.ResetState(userID)
		return h.showMenu(c, joinNotice(notice, "🎉 Review complete!"))
	}

	index, total := session.Progress()
	markup := &tele.ReplyMarkup{}

	var text string
	if side == service.Front {
		text = cardFront(card, index, total)
		markup.Inline(markup.Row(btnShowAnswer), markup.Row(btnEndReview))
	} else {
		text = cardBack(card, index, total)
		row := tele.Row{}
		for _, r := range domain.Ratings {
			row = append(row, markup.Data(ratingLabel(r), rateDataPrefix+r.String()))
		}
		markup.Inline(row, markup.Row(btnEndReview))
	}

	return h.reply(c, joinNotice(notice, text), markup)
}

func (h *Handler) handleShowAnswer(c tele.Context) error {
	session := h.session(c.Sender().ID)
	if session == nil {
		return c.Respond(&tele.CallbackResponse{Text: "No review in progress"})
	}
	if err := session.Reveal(); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "No review in progress"})
	}
	return h.presentCard(c, session, "")
}

func (h *Handler) handleRate(c tele.Context, value string) error {
	userID := c.Sender().ID

	session := h.session(userID)
	if session == nil {
		return c.Respond(&tele.CallbackResponse{Text: "No review in progress"})
	}

	rating, err := domain.ParseRating(value)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown rating"})
	}

	card, err := session.Rate(rating)
	if errors.Is(err, domain.ErrInvalidTransition) {
		h.logger.Debug("Rating before reveal", zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Show the answer first"})
	}
	if err != nil {
		h.logger.Error("Failed to rate card", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgRateFailed})
	}

	notice := ""
	if card.ID != "" && card.LastReviewed != nil {
		notice = ratedText(card, rating, *card.LastReviewed)
	}
	return h.presentCard(c, session, notice)
}

func (h *Handler) handleEndReview(c tele.Context) error {
	userID := c.Sender().ID

	session := h.session(userID)
	notice := "⏹ Review ended."
	if session != nil {
		index, total := session.Progress()
		notice = fmt.Sprintf("⏹ Review ended after %d of %d cards.", index, total)
	}

	h.endSession(userID)
	h.ResetState(userID)
	return h.showMenu(c, notice)
}

func ratingLabel(r domain.Rating) string {
	switch r {
	case domain.Again:
		return "🔁 Again"
	case domain.Hard:
		return "😓 Hard"
	case domain.Good:
		return "🙂 Good"
	case domain.Easy:
		return "😎 Easy"
	}
	return r.String()
}

func joinNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}

package handler

import (
	"sync"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Services bundles what the handlers need from the core
type Services struct {
	Auth    *service.AuthService
	Decks   *service.DeckService
	Cards   *service.CardService
	History *service.HistoryService
	Reviews *service.ReviewService
	Stats   *service.StatsService
}

// Handler manages all bot interactions
type Handler struct {
	bot    *tele.Bot
	svc    Services
	logger *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Active review sessions
	sessions   map[int64]*service.ReviewSession
	sessionMux sync.Mutex

	// Per-user locks so that rapid button presses are handled one at a time
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, svc Services, logger *zap.Logger) *Handler {
	return &Handler{
		bot:           bot,
		svc:           svc,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		sessions:      make(map[int64]*service.ReviewSession),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/review", h.locked(h.handleReview))
	h.bot.Handle("/stats", h.handleStats)

	// Text messages
	h.bot.Handle(tele.OnText, h.locked(h.handleText))

	// Callback queries (inline buttons)
	h.bot.Handle(&btnChoosePair, h.handleChoosePair)
	h.bot.Handle(&btnDecks, h.handleDecks)
	h.bot.Handle(&btnNewDeck, h.handleNewDeck)
	h.bot.Handle(&btnAddCard, h.handleAddCard)
	h.bot.Handle(&btnReview, h.locked(h.handleReview))
	h.bot.Handle(&btnShowAnswer, h.locked(h.handleShowAnswer))
	h.bot.Handle(&btnEndReview, h.locked(h.handleEndReview))
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.locked(h.handleCallback))
}

// GetState returns a copy of the user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	cp := *state
	return &cp
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState returns the user to idle, keeping the selected pair and deck
func (h *Handler) ResetState(userID int64) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()

	next := &domain.StateData{State: domain.StateIdle}
	if current, ok := h.states[userID]; ok {
		next.Partition = current.Partition
		next.DeckID = current.DeckID
	}
	h.states[userID] = next
}

// locked serializes handler calls per user
func (h *Handler) locked(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		h.callbackMux.Lock()
		lock, exists := h.callbackLocks[userID]
		if !exists {
			lock = &sync.Mutex{}
			h.callbackLocks[userID] = lock
		}
		h.callbackMux.Unlock()

		lock.Lock()
		defer lock.Unlock()
		return next(c)
	}
}

// Inline keyboard buttons
var (
	btnChoosePair = tele.Btn{
		Unique: "choose_pair",
		Text:   "🌍 Language pair",
	}
	btnDecks = tele.Btn{
		Unique: "decks",
		Text:   "🗂 Decks",
	}
	btnNewDeck = tele.Btn{
		Unique: "new_deck",
		Text:   "➕ New deck",
	}
	btnAddCard = tele.Btn{
		Unique: "add_card",
		Text:   "✏️ Add cards",
	}
	btnReview = tele.Btn{
		Unique: "review",
		Text:   "🧠 Review",
	}
	btnShowAnswer = tele.Btn{
		Unique: "show_answer",
		Text:   "👀 Show answer",
	}
	btnEndReview = tele.Btn{
		Unique: "end_review",
		Text:   "⏹ End review",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Stats",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnReview, btnAddCard),
		menu.Row(btnDecks, btnStats),
		menu.Row(btnChoosePair),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}

func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return markup
}

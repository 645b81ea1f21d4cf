package middleware

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgPasswordPrompt = "👋 Hi! This bot is private. Send the password to continue:"
	msgError          = "Something went wrong. Please try again later."
)

// Authorizer reports whether a Telegram user may use the bot
type Authorizer interface {
	IsAuthorized(userID int64) (bool, error)
}

// AuthMiddleware creates authentication middleware. Unauthorized users only
// reach /start and plain text, where the password is checked.
func AuthMiddleware(auth Authorizer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			// Check authorization
			authorized, err := auth.IsAuthorized(sender.ID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send(msgError)
			}
			if authorized {
				return next(c)
			}

			text := strings.TrimSpace(c.Text())
			if c.Callback() == nil && (text == "/start" || (text != "" && !strings.HasPrefix(text, "/"))) {
				return next(c)
			}

			logger.Debug("Blocked unauthorized update", zap.Int64("user_id", sender.ID))
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "Send the password first"})
			}
			return c.Send(msgPasswordPrompt)
		}
	}
}

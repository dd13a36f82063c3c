package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/session"
)

type ctxKey string

const SessionKey ctxKey = "session"

// GetSession extracts the chat session from context.
func GetSession(ctx context.Context) *session.Session {
	s, ok := ctx.Value(SessionKey).(*session.Session)
	if !ok {
		return nil
	}
	return s
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionLoader returns middleware that attaches the private chat's
// session to the context. Updates from groups pass through without one.
func SessionLoader(registry *session.Registry) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var chat *models.Chat
			if update.Message != nil {
				chat = &update.Message.Chat
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
				chat = &update.CallbackQuery.Message.Message.Chat
			}

			if chat != nil && chat.Type == "private" {
				ctx = WithSession(ctx, registry.Get(ctx, chat.ID))
			}

			next(ctx, b, update)
		}
	}
}

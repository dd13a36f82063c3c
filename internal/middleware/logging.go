package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			attrs := updateAttrs(update)

			next(ctx, b, update)

			attrs = append(attrs, "duration", time.Since(start))
			if s := GetSession(ctx); s != nil {
				attrs = append(attrs, "session_id", s.ID)
			}
			slog.Debug("update processed", attrs...)
		}
	}
}

func updateAttrs(update *models.Update) []any {
	switch {
	case update.Message != nil:
		attrs := []any{"type", "message", "chat_id", update.Message.Chat.ID, "text_len", len(update.Message.Text)}
		if update.Message.From != nil {
			attrs = append(attrs, "user_id", update.Message.From.ID)
		}
		return attrs
	case update.CallbackQuery != nil:
		attrs := []any{"type", "callback_query", "user_id", update.CallbackQuery.From.ID, "data", update.CallbackQuery.Data}
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			attrs = append(attrs, "chat_id", msg.Chat.ID)
		}
		return attrs
	default:
		return []any{"type", "unknown"}
	}
}

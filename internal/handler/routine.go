package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/domain"
	"github.com/set-night/routinebot/internal/middleware"
	"github.com/set-night/routinebot/internal/session"
	tg "github.com/set-night/routinebot/internal/telegram"
	"github.com/set-night/routinebot/internal/view"
)

const pendingText = "⏳ Please wait for the answer to your previous message."

func (h *Handler) handleRoutine(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	h.generate(ctx, s)
}

func (h *Handler) handleGenerate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	h.generate(ctx, s)
}

func (h *Handler) generate(ctx context.Context, s *session.Session) {
	items := s.Selection.Items()
	err := h.runChat(ctx, s, func(ctx context.Context) error {
		return s.Chat.Generate(ctx, items)
	})
	if err == nil {
		h.tgLogger.LogRoutine(s.ChatID, len(items))
	}
}

// HandleText processes private text messages as follow-up questions.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}

	text := update.Message.Text
	h.runChat(ctx, s, func(ctx context.Context) error {
		return s.Chat.FollowUp(ctx, text)
	})
}

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}

	transcript := view.Transcript(s.Chat.History(), "")
	for _, part := range tg.SplitMessage(transcript, tg.MaxMessageLen) {
		if _, err := tg.SendScreen(ctx, b, s.ChatID, part, nil); err != nil {
			slog.Error("send history", "error", err, "chat_id", s.ChatID)
			return
		}
	}
}

// runChat runs one chat transition with a typing indicator. The views
// attached to the session render its outcome; only the rejections that
// leave the transcript untouched are answered here.
func (h *Handler) runChat(ctx context.Context, s *session.Session, fn func(context.Context) error) error {
	stopTyping := tg.StartTyping(ctx, h.bot, s.ChatID)
	defer stopTyping()

	err := fn(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyMessage):
	case errors.Is(err, domain.ErrRequestPending):
		tg.SendScreen(ctx, h.bot, s.ChatID, pendingText, nil)
	default:
		slog.Debug("chat transition failed", "error", err, "session_id", s.ID)
	}
	return err
}

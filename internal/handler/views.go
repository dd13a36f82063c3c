package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/set-night/routinebot/internal/chat"
	"github.com/set-night/routinebot/internal/domain"
	"github.com/set-night/routinebot/internal/session"
	tg "github.com/set-night/routinebot/internal/telegram"
	"github.com/set-night/routinebot/internal/view"
)

// attachViews subscribes the Telegram views of a new session to its state.
// Every selection change re-renders the grid and the panel; every chat
// event updates the transcript.
func (h *Handler) attachViews(s *session.Session) {
	s.Selection.Subscribe(func(ctx context.Context, items []domain.Product) {
		if grid, _ := s.Messages(); grid != 0 {
			h.renderGrid(ctx, s, items, false)
		}
		h.renderPanel(ctx, s, items, false)
	})
	s.Chat.Subscribe(h.transcriptView(s))
}

func (h *Handler) showGrid(ctx context.Context, s *session.Session, fresh bool) {
	h.renderGrid(ctx, s, s.Selection.Items(), fresh)
}

func (h *Handler) showPanel(ctx context.Context, s *session.Session, fresh bool) {
	h.renderPanel(ctx, s, s.Selection.Items(), fresh)
}

// renderGrid edits the grid message in place, or sends a new one when fresh
// is set or none exists yet. A replaced grid message is deleted.
func (h *Handler) renderGrid(ctx context.Context, s *session.Session, items []domain.Product, fresh bool) {
	category, page := s.Category()
	screen := view.CatalogGrid(category, s.Visible(), selectedIDs(items), page)

	grid, _ := s.Messages()
	id := h.place(ctx, s.ChatID, grid, screen, fresh)
	if id != 0 {
		s.SetGridMessage(id)
	}
}

func (h *Handler) renderPanel(ctx context.Context, s *session.Session, items []domain.Product, fresh bool) {
	screen := view.SelectionPanel(items)

	_, panel := s.Messages()
	id := h.place(ctx, s.ChatID, panel, screen, fresh)
	if id != 0 {
		s.SetPanelMessage(id)
	}
}

// place shows screen in messageID, or in a new message. It returns the id
// of the message now holding the screen, 0 on failure.
func (h *Handler) place(ctx context.Context, chatID int64, messageID int, screen view.Screen, fresh bool) int {
	if messageID != 0 && !fresh {
		err := tg.EditScreen(ctx, h.bot, chatID, messageID, screen.Text, screen.Markup)
		if err == nil {
			return messageID
		}
		// Unchanged markup is reported as an error by Telegram.
		slog.Debug("edit screen", "error", err, "chat_id", chatID, "message_id", messageID)
		return messageID
	}

	if messageID != 0 {
		h.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	}

	msg, err := tg.SendScreen(ctx, h.bot, chatID, screen.Text, screen.Markup)
	if err != nil {
		slog.Error("send screen", "error", err, "chat_id", chatID)
		return 0
	}
	return msg.ID
}

// transcriptView renders chat events: a status message while pending,
// replaced by the reply or edited into the failure placeholder.
func (h *Handler) transcriptView(s *session.Session) chat.Listener {
	return func(ctx context.Context, ev chat.Event) {
		switch ev.Kind {
		case chat.EventPending:
			msg, err := tg.SendScreen(ctx, h.bot, s.ChatID, "⏳ "+ev.Text, nil)
			if err != nil {
				slog.Error("send pending status", "error", err, "chat_id", s.ChatID)
				return
			}
			s.SetStatusMessage(msg.ID)

		case chat.EventReply:
			if id := s.TakeStatusMessage(); id != 0 {
				h.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: s.ChatID, MessageID: id})
			}
			if err := tg.SendLongMessage(ctx, h.bot, s.ChatID, ev.Text); err != nil {
				slog.Error("send reply", "error", err, "chat_id", s.ChatID)
			}

		case chat.EventFailed:
			slog.Error("completion failed", "error", ev.Err, "chat_id", s.ChatID, "session_id", s.ID)
			h.tgLogger.LogError(ev.Err, "completion")

			text := "❌ " + ev.Text
			if id := s.TakeStatusMessage(); id != 0 {
				if err := tg.EditPlain(ctx, h.bot, s.ChatID, id, text); err == nil {
					return
				}
			}
			tg.SendScreen(ctx, h.bot, s.ChatID, text, nil)
		}
	}
}

func selectedIDs(items []domain.Product) map[int]bool {
	ids := make(map[int]bool, len(items))
	for _, p := range items {
		ids[p.ID] = true
	}
	return ids
}

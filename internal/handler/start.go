package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/middleware"
	"github.com/set-night/routinebot/internal/session"
	tg "github.com/set-night/routinebot/internal/telegram"
)

const welcomeText = "👋 Hi! I'm your beauty routine advisor.\n\n" +
	"1. Pick a category and tap products to select them.\n" +
	"2. Tap ✨ Generate Routine to get a routine built from your selection.\n" +
	"3. Ask follow-up questions by just writing to me.\n\n" +
	"Commands:\n" +
	"/products — Browse categories\n" +
	"/selected — Your selection\n" +
	"/routine — Generate a routine\n" +
	"/history — Conversation so far\n" +
	"/reset — Start a new conversation"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}

	if _, err := tg.SendScreen(ctx, b, s.ChatID, welcomeText, nil); err != nil {
		slog.Error("send welcome", "error", err, "chat_id", s.ChatID)
		return
	}
	h.showStartScreens(ctx, s)
}

// handleReset starts over as if the page were reloaded: the conversation
// is dropped and the selection is read back from storage.
func (h *Handler) handleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	old := middleware.GetSession(ctx)
	if old == nil {
		return
	}

	h.sessions.Drop(old.ChatID)
	s := h.sessions.Get(ctx, old.ChatID)

	tg.SendScreen(ctx, b, s.ChatID, "🔄 New conversation started. Your selection is kept.", nil)
	h.showStartScreens(ctx, s)
}

// showStartScreens sends the category menu, the grid and the selection
// panel. A category picked earlier in the session is shown again.
func (h *Handler) showStartScreens(ctx context.Context, s *session.Session) {
	products, err := h.catalog.Load(ctx)
	if err != nil {
		h.reportCatalogError(ctx, s.ChatID, err)
	} else {
		h.sendCategoryMenu(ctx, s, products)
	}
	h.showGrid(ctx, s, true)
	h.showPanel(ctx, s, true)
}

package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/catalog"
	"github.com/set-night/routinebot/internal/domain"
	"github.com/set-night/routinebot/internal/middleware"
	"github.com/set-night/routinebot/internal/session"
	tg "github.com/set-night/routinebot/internal/telegram"
	"github.com/set-night/routinebot/internal/view"
)

const catalogErrorText = "❌ The product catalog is unavailable right now. Please try again later."

func (h *Handler) handleProducts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}

	products, err := h.catalog.Load(ctx)
	if err != nil {
		h.reportCatalogError(ctx, s.ChatID, err)
		return
	}
	h.sendCategoryMenu(ctx, s, products)
}

func (h *Handler) handleSelected(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	h.showPanel(ctx, s, true)
}

func (h *Handler) handleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}

	products, err := h.catalog.Load(ctx)
	if err != nil {
		h.reportCatalogError(ctx, s.ChatID, err)
		return
	}
	h.sendCategoryMenu(ctx, s, products)
}

// handleCategory loads the catalog, filters it by the picked category and
// shows the result as a fresh grid below the menu.
func (h *Handler) handleCategory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	cb, err := view.ParseCallback(update.CallbackQuery.Data)
	if err != nil {
		slog.Warn("bad callback", "error", err)
		return
	}

	products, err := h.catalog.Load(ctx)
	if err != nil {
		h.reportCatalogError(ctx, s.ChatID, err)
		return
	}

	s.SetCategory(cb.Category, catalog.FilterByCategory(products, cb.Category))

	chatID, messageID := callbackMessage(update)
	if messageID != 0 {
		menu := view.CategoryMenu(catalog.Categories(products), cb.Category)
		if err := tg.EditScreen(ctx, b, chatID, messageID, menu.Text, menu.Markup); err != nil {
			slog.Debug("edit category menu", "error", err)
		}
	}

	h.showGrid(ctx, s, true)
	h.showPanel(ctx, s, false)
}

func (h *Handler) handleGridPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	cb, err := view.ParseCallback(update.CallbackQuery.Data)
	if err != nil {
		slog.Warn("bad callback", "error", err)
		return
	}

	s.SetPage(cb.Page)
	h.showGrid(ctx, s, false)
}

func (h *Handler) handleInfo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	cb, err := view.ParseCallback(update.CallbackQuery.Data)
	if err != nil {
		slog.Warn("bad callback", "error", err)
		return
	}

	p, err := h.findProduct(ctx, s, cb.ID)
	if err != nil {
		slog.Warn("product details", "error", err, "product_id", cb.ID)
		return
	}

	card := view.ProductCard(p, s.Selection.Contains(p.ID))
	if err := tg.SendPhotoURL(ctx, b, s.ChatID, p.Image, card.Text, card.Markup); err != nil {
		slog.Error("send product card", "error", err, "product_id", p.ID)
	}
}

// handleToggle serves both grid toggles and panel removals; a removal is a
// toggle of a selected product.
func (h *Handler) handleToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	s := middleware.GetSession(ctx)
	if s == nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})
		return
	}
	cb, err := view.ParseCallback(update.CallbackQuery.Data)
	if err != nil {
		slog.Warn("bad callback", "error", err)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})
		return
	}

	p, err := h.findProduct(ctx, s, cb.ID)
	if err != nil {
		slog.Warn("toggle product", "error", err, "product_id", cb.ID)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            "Product not found",
		})
		return
	}

	text := "Removed " + p.Name
	if s.Selection.Toggle(ctx, p) {
		text = "Added " + p.Name
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	s := middleware.GetSession(ctx)
	if s == nil {
		return
	}
	s.Selection.Clear(ctx)
}

// findProduct resolves a product id from the shown grid, then the
// selection, then a fresh catalog load.
func (h *Handler) findProduct(ctx context.Context, s *session.Session, id int) (domain.Product, error) {
	if p, err := catalog.Find(s.Visible(), id); err == nil {
		return p, nil
	}
	if p, ok := s.Selection.Find(id); ok {
		return p, nil
	}
	products, err := h.catalog.Load(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return catalog.Find(products, id)
}

func (h *Handler) sendCategoryMenu(ctx context.Context, s *session.Session, products []domain.Product) {
	current, _ := s.Category()
	menu := view.CategoryMenu(catalog.Categories(products), current)
	if _, err := tg.SendScreen(ctx, h.bot, s.ChatID, menu.Text, menu.Markup); err != nil {
		slog.Error("send category menu", "error", err, "chat_id", s.ChatID)
	}
}

func (h *Handler) reportCatalogError(ctx context.Context, chatID int64, err error) {
	slog.Error("load catalog", "error", err, "chat_id", chatID)
	if !errors.Is(err, context.Canceled) {
		h.tgLogger.LogError(err, "load catalog")
	}
	tg.SendScreen(ctx, h.bot, chatID, catalogErrorText, nil)
}

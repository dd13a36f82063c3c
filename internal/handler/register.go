package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/view"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/products", bot.MatchTypePrefix, h.handleProducts)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/selected", bot.MatchTypePrefix, h.handleSelected)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/routine", bot.MatchTypePrefix, h.handleRoutine)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, h.handleReset)

	// Catalog
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionCategory)+":", bot.MatchTypePrefix, h.handleCategory)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionMenu), bot.MatchTypeExact, h.handleMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionPage)+":", bot.MatchTypePrefix, h.handleGridPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionInfo)+":", bot.MatchTypePrefix, h.handleInfo)

	// Selection
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionToggle)+":", bot.MatchTypePrefix, h.handleToggle)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionRemove)+":", bot.MatchTypePrefix, h.handleToggle)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionClear), bot.MatchTypeExact, h.handleClear)

	// Chat
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionGenerate), bot.MatchTypeExact, h.handleGenerate)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, string(view.ActionNoop), bot.MatchTypeExact, h.handleNoop)
}

func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})
}

// callbackMessage returns the chat and message a callback button belongs to.
func callbackMessage(update *models.Update) (chatID int64, messageID int) {
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		return msg.Chat.ID, msg.ID
	}
	return 0, 0
}

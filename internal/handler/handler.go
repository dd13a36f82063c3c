package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/routinebot/internal/catalog"
	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/session"
	"github.com/set-night/routinebot/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	catalog  *catalog.Loader
	sessions *session.Registry
	tgLogger *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	Catalog  *catalog.Loader
	Sessions *session.Registry
	TgLogger *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies and hooks its
// views into every session the registry creates.
func New(deps Deps) *Handler {
	h := &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		catalog:  deps.Catalog,
		sessions: deps.Sessions,
		tgLogger: deps.TgLogger,
	}
	h.sessions.OnCreate(h.attachViews)
	return h
}

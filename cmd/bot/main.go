package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	routinebot "github.com/set-night/routinebot"
	"github.com/set-night/routinebot/internal/catalog"
	"github.com/set-night/routinebot/internal/chat"
	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/handler"
	"github.com/set-night/routinebot/internal/middleware"
	"github.com/set-night/routinebot/internal/repository"
	"github.com/set-night/routinebot/internal/selection"
	"github.com/set-night/routinebot/internal/service"
	"github.com/set-night/routinebot/internal/session"
	"github.com/set-night/routinebot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(routinebot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize services
	kv := repository.NewKVStore(pool)
	completion := service.NewCompletionService(cfg.CompletionURL, cfg.CompletionAPIKey)
	catalogLoader := catalog.NewLoader(cfg.CatalogURL)
	sessions := session.NewRegistry(
		func(chatID int64) selection.Storage { return kv.Scope(chatID) },
		completion,
		chat.Options{
			Model:        cfg.CompletionModel,
			SystemPrompt: cfg.SystemPrompt,
			HistoryLimit: cfg.HistoryLimit,
		},
	)

	// Handler pointer for use in closures registered before the bot exists
	var h *handler.Handler
	var tgLogger *telegram.TelegramLogger

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(reporterFunc(func(err error, where string) { tgLogger.LogError(err, where) })),
			middleware.SessionLoader(sessions),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			// Plain text that matched no command is a follow-up question
			h.HandleText(ctx, b, update)
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		Catalog:  catalogLoader,
		Sessions: sessions,
		TgLogger: tgLogger,
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "catalog", cfg.CatalogURL, "model", cfg.CompletionModel)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

type reporterFunc func(err error, where string)

func (f reporterFunc) LogError(err error, where string) { f(err, where) }

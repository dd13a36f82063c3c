package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Catalog: http(s) URL or local file path
	CatalogURL string `env:"CATALOG_URL" envDefault:"products.json"`

	// Completion endpoint
	CompletionURL    string `env:"COMPLETION_URL,required"`
	CompletionAPIKey string `env:"COMPLETION_API_KEY"`
	CompletionModel  string `env:"COMPLETION_MODEL" envDefault:"gpt-4o"`

	// Chat behavior
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"40"`
	SystemPrompt string `env:"SYSTEM_PROMPT"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Logging
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int    `env:"LOG_TOPIC_ERROR"`
	LogTopicRoutine   int    `env:"LOG_TOPIC_ROUTINE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("parse config: HISTORY_LIMIT must be >= 0, got %d", cfg.HistoryLimit)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/routine")
	t.Setenv("COMPLETION_URL", "https://example.test/v1/chat")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "products.json", cfg.CatalogURL)
	assert.Equal(t, "gpt-4o", cfg.CompletionModel)
	assert.Equal(t, 40, cfg.HistoryLimit)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"BOT_TOKEN", "DATABASE_URL", "COMPLETION_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNegativeHistoryLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("HISTORY_LIMIT", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

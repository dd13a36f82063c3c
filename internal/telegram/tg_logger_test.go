package telegram

import (
	"errors"
	"testing"

	"github.com/set-night/routinebot/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestTelegramLoggerDisabledWithoutChat(t *testing.T) {
	l := NewTelegramLogger(nil, &config.Config{LogTopicError: 3})

	assert.NotPanics(t, func() {
		l.LogError(errors.New("boom"), "test")
		l.LogRoutine(1, 2)
	})
}

func TestTelegramLoggerNilSafe(t *testing.T) {
	var l *TelegramLogger
	assert.NotPanics(t, func() { l.LogError(errors.New("boom"), "test") })
}

func TestTopicRouting(t *testing.T) {
	l := NewTelegramLogger(nil, &config.Config{LogTopicError: 3, LogTopicRoutine: 4})

	assert.Equal(t, 3, l.getTopicID(LogTypeError))
	assert.Equal(t, 4, l.getTopicID(LogTypeRoutine))
	assert.Zero(t, l.getTopicID("other"))
}

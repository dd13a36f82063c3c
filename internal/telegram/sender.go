package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/config"
)

const MaxMessageLen = config.MaxTelegramMessageLen

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	text = FixMarkdown(text)
	parseMode := models.ParseModeMarkdownV1
	if !IsValidMarkdownV2(text) {
		parseMode = ""
	}

	for _, part := range SplitMessage(text, MaxMessageLen) {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: parseMode,
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil && params.ParseMode != "" {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			_, err = b.SendMessage(ctx, params)
		}
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

// SendScreen sends a plain-text message with an inline keyboard.
func SendScreen(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) (*models.Message, error) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return msg, nil
}

// EditScreen replaces the text and keyboard of a message sent by SendScreen.
func EditScreen(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// EditPlain replaces the text of a message, dropping any keyboard.
func EditPlain(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) error {
	if len([]rune(text)) > MaxMessageLen {
		text = string([]rune(text)[:MaxMessageLen-3]) + "..."
	}
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// SendPhotoURL sends a remote photo with a caption and optional keyboard.
// Falls back to a text message when Telegram cannot fetch the image.
func SendPhotoURL(ctx context.Context, b *bot.Bot, chatID int64, url, caption string, markup *models.InlineKeyboardMarkup) error {
	if len([]rune(caption)) > config.MaxCaptionLen {
		caption = string([]rune(caption)[:config.MaxCaptionLen-3]) + "..."
	}

	if url != "" {
		params := &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: url},
			Caption: caption,
		}
		if markup != nil {
			params.ReplyMarkup = markup
		}
		_, err := b.SendPhoto(ctx, params)
		if err == nil {
			return nil
		}
		slog.Warn("send photo failed, falling back to text", "error", err, "url", url)
	}

	_, err := SendScreen(ctx, b, chatID, caption, markup)
	return err
}

// StartTyping sends "typing..." action every 4 seconds until the returned cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}

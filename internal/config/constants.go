package config

import "time"

const (
	// Storage key holding the serialized selection
	SelectionKey = "selectedProducts"

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxCaptionLen         = 1024

	// Completion request timeout
	RequestTimeout = 90 * time.Second

	// Catalog fetch timeout
	CatalogTimeout = 15 * time.Second

	// Longest product label on a grid button
	MaxButtonLabelLen = 48
)

// DefaultSystemPrompt seeds every chat history.
const DefaultSystemPrompt = "You are a helpful beauty advisor. Only answer questions about the generated routine, " +
	"skincare, haircare, makeup, fragrance, or other beauty-related topics. If a question is off-topic, " +
	"politely guide the user back to beauty and routine advice. Always use the full conversation history for context."

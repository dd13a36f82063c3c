package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/domain"
)

// CompletionService talks to an OpenAI-style chat completion endpoint.
type CompletionService struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewCompletionService(endpoint, apiKey string) *CompletionService {
	return &CompletionService{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type ChatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the full message list and returns the first choice's
// content. Any response without non-empty content is ErrMalformedResponse.
func (s *CompletionService) Complete(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	payload, err := json.Marshal(ChatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("chat request (429): %w", domain.ErrRateLimited)
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", fmt.Errorf("chat request (503): %w", domain.ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, domain.ErrMalformedResponse)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content (status %d): %w", resp.StatusCode, domain.ErrMalformedResponse)
	}

	return chatResp.Choices[0].Message.Content, nil
}

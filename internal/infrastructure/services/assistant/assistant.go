// Package assistant - адаптер chat-completion API (OpenRouter-совместимый).
package assistant

import (
	"context"
	"net/http"
	"strings"

	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
)

const (
	serviceName = "assistant"

	// DefaultModel is used when no model is configured.
	DefaultModel = "deepseek/deepseek-v3.2-exp"

	// sentenceMarker is a tokenizer artifact some models leak into replies.
	sentenceMarker = "<｜begin▁of▁sentence｜>"
)

// Config - настройки AI сервиса.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Assistant реализует ports.Assistant.
type Assistant struct {
	client httpclient.Client
	cfg    Config
}

var _ ports.Assistant = (*Assistant)(nil)

// NewAssistant создаёт адаптер.
func NewAssistant(client httpclient.Client, cfg Config) *Assistant {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Assistant{client: client, cfg: cfg}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Ask sends a single user message and returns the first choice's text.
func (a *Assistant) Ask(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Do(ctx, httpclient.Request{
		Service: serviceName,
		Method:  http.MethodPost,
		URL:     a.cfg.BaseURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + a.cfg.APIKey,
			"Content-Type":  "application/json",
		},
		Body: completionRequest{
			Model:    a.cfg.Model,
			Messages: []message{{Role: "user", Content: prompt}},
		},
	})
	if err != nil {
		return "", err
	}

	body, err := httpclient.HandleResponse(resp)
	if err != nil {
		return "", err
	}

	var out completionResponse
	if err := httpclient.DecodeJSON(body, &out); err != nil {
		return "", errors.WithCause(errors.Unexpected(), err)
	}
	if len(out.Choices) == 0 {
		return "", errors.Unexpected()
	}

	return strings.TrimSpace(strings.ReplaceAll(out.Choices[0].Message.Content, sentenceMarker, "")), nil
}

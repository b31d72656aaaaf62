package providers

import (
	"context"
)

// Config describes one model binding (worker or auditor role).
type Config struct {
	Credentials  Credentials `json:"credentials"`
	Model        string      `json:"model"`
	BaseURL      string      `json:"base_url,omitempty"`
	MaxTokens    int         `json:"max_tokens,omitempty"`
	Temperature  float64     `json:"temperature,omitempty"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}

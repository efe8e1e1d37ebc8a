package llm

import (
	"context"
	"errors"
	"fmt"

	"taxdefense-backend/config"
)

var ErrEmptyResponse = errors.New("model returned no content")

// Request is a single non-streaming completion request
type Request struct {
	Model        string
	System       string
	User         string
	Temperature  float32
	MaxTokens    int
	TopP         float32
	JSONResponse bool // Ask the provider to return a syntactically valid JSON object
}

// Client is the outbound model service. Implementations make exactly one call
// per Complete and never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// NewClient builds the client for the configured provider
func NewClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

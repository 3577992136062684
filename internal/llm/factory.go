package llm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single remote call so that the fallback path
// always runs within a bounded total latency.
const DefaultTimeout = 30 * time.Second

// Config selects and configures the remote chat provider.
type Config struct {
	Provider string // openai, anthropic, ollama; empty disables remote analysis
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewChatCompleter creates the ChatCompleter for cfg.Provider.
// Returns (nil, nil) when no provider is configured.
func NewChatCompleter(cfg Config, logger *zap.Logger) (ChatCompleter, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, logger), nil
	case "anthropic":
		return NewAnthropicCompleter(AnthropicConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, logger), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		model := cfg.Model
		if model == "" {
			model = "qwen2.5:7b"
		}
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   model,
			BaseURL: baseURL,
			Timeout: cfg.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIConfig holds configuration for an OpenAI-compatible chat endpoint.
// Ollama is served through the same client via its /v1 compatibility API.
type OpenAIConfig struct {
	APIKey  string
	Model   string        // default: gpt-4o-mini
	BaseURL string        // default: https://api.openai.com/v1
	Timeout time.Duration // default: 30s
}

// OpenAICompleter implements ChatCompleter using the chat completions API.
type OpenAICompleter struct {
	cfg            OpenAIConfig
	client         *openai.Client
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

// NewOpenAICompleter creates a new OpenAI-compatible completer.
func NewOpenAICompleter(cfg OpenAIConfig, logger *zap.Logger) *OpenAICompleter {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("llm").With(zap.String("provider", "openai"))

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &OpenAICompleter{
		cfg:            cfg,
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: NewCircuitBreaker("openai", logger),
		logger:         logger,
	}
}

// CompleteJSON sends a JSON-mode chat completion and returns the reply text.
func (c *OpenAICompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	text, err := c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, system, user)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return "", fmt.Errorf("openai circuit breaker open: %w", err)
	}
	return text, err
}

func (c *OpenAICompleter) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Warn("chat completion failed",
			zap.String("model", c.cfg.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("chat completion done",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps HTTP 429 onto ErrRateLimited and wraps the rest.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, reqErr.Err)
	}
	return fmt.Errorf("openai chat completion: %w", err)
}

// GetModel returns the configured model name.
func (c *OpenAICompleter) GetModel() string {
	return c.cfg.Model
}

// Compile-time assertion.
var _ ChatCompleter = (*OpenAICompleter)(nil)

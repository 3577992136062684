package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicConfig holds configuration for the Anthropic client.
type AnthropicConfig struct {
	APIKey  string
	Model   string        // default: claude-haiku-4-5-20251001
	BaseURL string        // default: library default
	Timeout time.Duration // default: 30s
}

// AnthropicCompleter implements ChatCompleter using the Anthropic Messages API.
// The Messages API has no JSON mode, so the system prompt carries the
// output contract and the parser strips any surrounding prose.
type AnthropicCompleter struct {
	cfg            AnthropicConfig
	client         *anthropic.Client
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

// NewAnthropicCompleter creates a new Anthropic completer.
func NewAnthropicCompleter(cfg AnthropicConfig, logger *zap.Logger) *AnthropicCompleter {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("llm").With(zap.String("provider", "anthropic"))

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
	}

	return &AnthropicCompleter{
		cfg:            cfg,
		client:         anthropic.NewClient(cfg.APIKey, opts...),
		circuitBreaker: NewCircuitBreaker("anthropic", logger),
		logger:         logger,
	}
}

// CompleteJSON sends a single-turn message and returns the reply text.
func (c *AnthropicCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	text, err := c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.complete(ctx, system, user)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return "", fmt.Errorf("anthropic circuit breaker open: %w", err)
	}
	return text, err
}

func (c *AnthropicCompleter) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: 2000,
		System:    system,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &user},
			}},
		},
	})
	if err != nil {
		c.logger.Warn("messages request failed",
			zap.String("model", c.cfg.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classifyAnthropicError(err)
	}

	text := textFromMessages(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("messages request done",
		zap.String("model", c.cfg.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

func textFromMessages(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) && apiErr.IsRateLimitErr() {
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, reqErr.Err)
	}
	return fmt.Errorf("anthropic messages: %w", err)
}

// GetModel returns the configured model name.
func (c *AnthropicCompleter) GetModel() string {
	return c.cfg.Model
}

// Compile-time assertion.
var _ ChatCompleter = (*AnthropicCompleter)(nil)

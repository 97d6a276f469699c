// Package llm provides chat-completion clients for the backends the
// arena queries: OpenAI and OpenAI-compatible services (Groq, Ollama),
// Anthropic's Messages API, and Google Gemini. Provider-specific request
// formatting, response shape normalization, and error classification are
// isolated here behind a common interface, with middleware support for
// timeouts, metrics, and tracing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ahrav/llm-arena/internal/ports"
)

// Contract errors. These indicate a caller defect and are returned
// immediately, never classified as backend failures.
var (
	// ErrNoMessages indicates an empty message list was passed to Ask.
	ErrNoMessages = errors.New("messages cannot be empty")
	// ErrEmptyModel indicates a blank model identifier.
	ErrEmptyModel = errors.New("model cannot be empty")
)

// CoreLLM is the minimal interface a backend implementation provides.
// Middleware wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends the message list to the backend and returns the
	// normalized response text together with input/output token counts.
	DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// DoRawRequest sends the message list and returns the unprocessed
	// backend response object. The concrete type is backend-specific.
	DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error)

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel updates the model for subsequent requests.
	SetModel(model string)
}

// Middleware wraps a CoreLLM to add cross-cutting behavior such as
// timeouts, metrics, or tracing without touching provider logic.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds the settings for creating a client.
type ClientConfig struct {
	// APIKey authenticates requests to the backend.
	APIKey string

	// Model selects the backend model. Required.
	Model string

	// BaseURL overrides the backend's default endpoint. This is how the
	// OpenAI-compatible provider serves Groq and Ollama.
	BaseURL string

	// Timeout bounds each request. Zero means no client-side bound;
	// callers may still pass a context deadline per call.
	Timeout time.Duration

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware

	// Logger records timeout and backend-error conditions for
	// diagnostics. Nil disables diagnostic logging.
	Logger *zap.Logger
}

// Client wraps a CoreLLM behind the ports.ChatClient contract.
type Client struct {
	core   CoreLLM
	logger *zap.Logger
}

var _ ports.ChatClient = (*Client)(nil)

// NewClient creates a chat client for the given provider type
// ("openai", "groq", "ollama", "anthropic", "google"). It validates the
// configuration, builds the provider, and applies the middleware chain.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if strings.TrimSpace(config.Model) == "" {
		return nil, ErrEmptyModel
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}

	if config.Timeout > 0 {
		core = TimeoutMiddleware(ValidateTimeout(config.Timeout))(core)
	}

	// Apply in reverse so the first middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{core: core, logger: logger}, nil
}

// Ask sends the messages and returns the first message's text, trimmed.
// An empty message list fails immediately with ErrNoMessages. Backend
// failures come back as *ProviderError so callers can distinguish a
// timeout from a server fault from a malformed response.
func (c *Client) Ask(ctx context.Context, messages []ports.ChatMessage, options map[string]any) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	response, _, _, err := c.core.DoRequest(ctx, messages, options)
	if err != nil {
		c.logFailure(err)
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// AskRaw sends the messages and returns the unprocessed backend
// response object.
func (c *Client) AskRaw(ctx context.Context, messages []ports.ChatMessage, options map[string]any) (any, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	raw, err := c.core.DoRawRequest(ctx, messages, options)
	if err != nil {
		c.logFailure(err)
		return nil, err
	}
	return raw, nil
}

// GetModel returns the model configured on the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SetModel switches the underlying provider to a different model.
func (c *Client) SetModel(model string) { c.core.SetModel(model) }

func (c *Client) logFailure(err error) {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.Type == ErrorTypeTimeout {
			c.logger.Warn("chat request timed out",
				zap.String("provider", provErr.Provider),
				zap.String("model", c.core.GetModel()))
			return
		}
		c.logger.Warn("chat request failed",
			zap.String("provider", provErr.Provider),
			zap.String("model", c.core.GetModel()),
			zap.Int("status", provErr.StatusCode),
			zap.Error(err))
		return
	}
	c.logger.Warn("chat request failed", zap.String("model", c.core.GetModel()), zap.Error(err))
}

// ProviderFactory builds a CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider implementation under a
// type name, making it available to NewClient and the Registry.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}

package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ahrav/llm-arena/internal/ports"
)

// AnthropicDefaultModel is the default Claude model.
const AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreLLM against the Anthropic Messages
// API. Unlike the OpenAI-compatible backends, system prompts travel in a
// dedicated request field and the response body is a list of content
// blocks rather than choices.
type anthropicProvider struct {
	BaseProvider
	client          anthropic.Client
	errorClassifier *ErrorClassifier
}

func newAnthropicProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicProvider{
		BaseProvider:    BaseProvider{model: model},
		client:          anthropic.NewClient(opts...),
		errorClassifier: &ErrorClassifier{Provider: "anthropic"},
	}, nil
}

// DoRequest sends a Messages API request and joins the returned text
// blocks into the flat answer. Empty content is a malformed backend
// response.
func (p *anthropicProvider) DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (string, int, int, error) {
	message, err := p.createMessage(ctx, messages, opts)
	if err != nil {
		return "", 0, 0, err
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}

	response := text.String()
	if response == "" {
		return "", 0, 0, NewProviderError("anthropic", ErrorTypeUnknown, 0, "empty content in response", ErrEmptyResponse)
	}

	tokensIn := tokenCount(int(message.Usage.InputTokens), joinContents(messages))
	tokensOut := tokenCount(int(message.Usage.OutputTokens), response)

	return response, tokensIn, tokensOut, nil
}

// DoRawRequest sends the same request and returns the unprocessed
// *anthropic.Message.
func (p *anthropicProvider) DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error) {
	return p.createMessage(ctx, messages, opts)
}

func (p *anthropicProvider) createMessage(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (*anthropic.Message, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	options := ParseRequestOptions(opts, p.GetModel())
	params := p.buildParams(messages, options)

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, p.handleError(err)
	}
	if message == nil {
		return nil, NewProviderError("anthropic", ErrorTypeUnknown, 0, "nil response from API", ErrEmptyResponse)
	}
	return message, nil
}

func (p *anthropicProvider) buildParams(messages []ports.ChatMessage, options RequestOptions) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: int64(options.MaxTokens),
	}

	// System-role entries move to the dedicated System field; the rest
	// stay in the conversation in order.
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case ports.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case ports.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	params.Messages = turns
	if len(system) > 0 {
		params.System = system
	}

	if options.Temperature != nil {
		params.Temperature = anthropic.Float(clampFloat64(*options.Temperature, 0.0, 1.0))
	}

	return params
}

func (p *anthropicProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return p.errorClassifier.ClassifyHTTPError(apiErr.StatusCode, apiErr.Error(), err)
	}

	return NewProviderError("anthropic", ErrorTypeNetwork, 0, "request failed", err)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ahrav/llm-arena/internal/ports"
)

// Defaults for the OpenAI-compatible providers. Groq and Ollama both
// expose the OpenAI chat-completions wire format, so one implementation
// serves all three with different base URLs.
const (
	OpenAIDefaultModel = "gpt-4o"

	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqDefaultModel = "openai/gpt-oss-120b"

	OllamaBaseURL      = "http://localhost:11434/v1"
	OllamaDefaultModel = "llama3.2:latest"

	// ollamaPlaceholderKey satisfies the SDK; a local Ollama endpoint
	// does not check credentials.
	ollamaPlaceholderKey = "ollama-local"
)

func init() {
	RegisterProviderFactory("openai", func(config ClientConfig) (CoreLLM, error) {
		return newOpenAICompatProvider("openai", OpenAIDefaultModel, "", config)
	})
	RegisterProviderFactory("groq", func(config ClientConfig) (CoreLLM, error) {
		return newOpenAICompatProvider("groq", GroqDefaultModel, GroqBaseURL, config)
	})
	RegisterProviderFactory("ollama", func(config ClientConfig) (CoreLLM, error) {
		if config.APIKey == "" {
			config.APIKey = ollamaPlaceholderKey
		}
		return newOpenAICompatProvider("ollama", OllamaDefaultModel, OllamaBaseURL, config)
	})
}

// openAIProvider implements CoreLLM against any OpenAI-compatible
// chat-completions endpoint.
type openAIProvider struct {
	BaseProvider
	name            string
	client          *openai.Client
	errorClassifier *ErrorClassifier
}

func newOpenAICompatProvider(name, defaultModel, defaultBaseURL string, config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if baseURL != "" {
		validated, err := ValidateBaseURL(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		clientConfig.BaseURL = validated
	}

	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: ValidateTimeout(config.Timeout)}
	}

	return &openAIProvider{
		BaseProvider:    BaseProvider{model: model},
		name:            name,
		client:          openai.NewClientWithConfig(clientConfig),
		errorClassifier: &ErrorClassifier{Provider: name},
	}, nil
}

// DoRequest sends a chat-completion request and extracts the first
// choice's message content. A response without choices or content is a
// malformed backend response, reported as ErrNoResponseChoice.
func (p *openAIProvider) DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (string, int, int, error) {
	resp, err := p.createCompletion(ctx, messages, opts)
	if err != nil {
		return "", 0, 0, err
	}

	if len(resp.Choices) == 0 {
		return "", 0, 0, NewProviderError(p.name, ErrorTypeUnknown, 0, "malformed backend response", ErrNoResponseChoice)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", 0, 0, NewProviderError(p.name, ErrorTypeUnknown, 0, "response message has no content", ErrEmptyResponse)
	}

	tokensIn := tokenCount(resp.Usage.PromptTokens, joinContents(messages))
	tokensOut := tokenCount(resp.Usage.CompletionTokens, content)

	return content, tokensIn, tokensOut, nil
}

// DoRawRequest sends the same request and returns the unprocessed
// *openai.ChatCompletionResponse.
func (p *openAIProvider) DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error) {
	resp, err := p.createCompletion(ctx, messages, opts)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *openAIProvider) createCompletion(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (*openai.ChatCompletionResponse, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	options := ParseRequestOptions(opts, p.GetModel())
	req := p.buildRequest(messages, options)

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.handleError(err)
	}
	return &resp, nil
}

func (p *openAIProvider) buildRequest(messages []ports.ChatMessage, options RequestOptions) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    options.Model,
		Messages: buildOpenAIMessages(messages),
	}

	if options.Temperature != nil {
		// The OpenAI API accepts temperatures in [0.0, 2.0].
		req.Temperature = float32(clampFloat64(*options.Temperature, 0.0, 2.0))
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if format, ok := options.Extra["response_format"].(string); ok && format == "json_object" {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return req
}

func buildOpenAIMessages(messages []ports.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case ports.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case ports.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func joinContents(messages []ports.ChatMessage) string {
	total := ""
	for _, m := range messages {
		total += m.Content
	}
	return total
}

// handleError classifies SDK failures into ProviderError values.
func (p *openAIProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "unknown error"
		}
		return p.errorClassifier.ClassifyHTTPError(apiErr.HTTPStatusCode, message, err)
	}

	return NewProviderError(p.name, ErrorTypeNetwork, 0, "request failed", err)
}

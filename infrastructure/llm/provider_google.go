package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/ahrav/llm-arena/internal/ports"
)

// GoogleDefaultModel is the default Gemini model.
const GoogleDefaultModel = "gemini-2.5-flash"

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreLLM against the Google Gemini API.
// Gemini has no separate system role, so system messages are folded
// into the first user turn.
type googleProvider struct {
	BaseProvider
	client          *genai.Client
	errorClassifier *ErrorClassifier
}

func newGoogleProvider(config ClientConfig) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	return &googleProvider{
		BaseProvider:    BaseProvider{model: model},
		client:          client,
		errorClassifier: &ErrorClassifier{Provider: "google"},
	}, nil
}

// DoRequest sends a generate-content request and extracts the response
// text. Empty text is a malformed backend response.
func (p *googleProvider) DoRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (string, int, int, error) {
	resp, err := p.generateContent(ctx, messages, opts)
	if err != nil {
		return "", 0, 0, err
	}

	content := resp.Text()
	if content == "" {
		return "", 0, 0, NewProviderError("google", ErrorTypeUnknown, 0, "empty content in response", ErrEmptyResponse)
	}

	tokensIn := EstimateTokens(joinContents(messages))
	tokensOut := EstimateTokens(content)
	if usage := resp.UsageMetadata; usage != nil {
		if usage.PromptTokenCount > 0 {
			tokensIn = int(usage.PromptTokenCount)
		}
		if usage.CandidatesTokenCount > 0 {
			tokensOut = int(usage.CandidatesTokenCount)
		}
	}

	return content, tokensIn, tokensOut, nil
}

// DoRawRequest sends the same request and returns the unprocessed
// *genai.GenerateContentResponse.
func (p *googleProvider) DoRawRequest(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (any, error) {
	return p.generateContent(ctx, messages, opts)
}

func (p *googleProvider) generateContent(ctx context.Context, messages []ports.ChatMessage, opts map[string]any) (*genai.GenerateContentResponse, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	options := ParseRequestOptions(opts, p.GetModel())
	contents := buildGeminiContents(messages)
	config := p.buildGenerationConfig(options)

	resp, err := p.client.Models.GenerateContent(ctx, options.Model, contents, config)
	if err != nil {
		return nil, p.handleError(err)
	}
	return resp, nil
}

// buildGeminiContents converts the chat exchange into Gemini content
// turns. System messages are prepended to the first user turn because
// the API has no system role.
func buildGeminiContents(messages []ports.ChatMessage) []*genai.Content {
	var system []string
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case ports.RoleSystem:
			system = append(system, m.Content)
		case ports.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			text := m.Content
			if len(system) > 0 {
				text = fmt.Sprintf("System: %s\n\nUser: %s", strings.Join(system, "\n"), m.Content)
				system = nil
			}
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}

	// A system-only exchange still needs one user turn.
	if len(system) > 0 {
		contents = append(contents, genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser))
	}

	return contents
}

func (p *googleProvider) buildGenerationConfig(options RequestOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if options.Temperature != nil {
		config.Temperature = genai.Ptr(float32(clampFloat64(*options.Temperature, 0.0, 2.0)))
	}
	if options.MaxTokens > 0 {
		if options.MaxTokens > math.MaxInt32 {
			config.MaxOutputTokens = math.MaxInt32
		} else {
			config.MaxOutputTokens = int32(options.MaxTokens)
		}
	}

	return config
}

func (p *googleProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}
		if isContentPolicyError(apiErr) {
			return NewProviderError("google", ErrorTypeContentPolicy, apiErr.Code, "request blocked by safety filters", err)
		}
		return p.errorClassifier.ClassifyHTTPError(apiErr.Code, message, err)
	}

	return NewProviderError("google", ErrorTypeNetwork, 0, "request failed", err)
}

func isContentPolicyError(apiErr *googleapi.Error) bool {
	lower := strings.ToLower(apiErr.Message)
	if strings.Contains(lower, "safety") || strings.Contains(lower, "blocked") {
		return true
	}
	for _, e := range apiErr.Errors {
		if e.Reason == "SAFETY" || e.Reason == "BLOCKED" {
			return true
		}
	}
	return false
}

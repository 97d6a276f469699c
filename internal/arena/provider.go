package arena

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahrav/llm-arena/internal/domain"
	"github.com/ahrav/llm-arena/internal/ports"
)

// Construction errors for ChatProvider.
var (
	ErrProviderNameEmpty = errors.New("provider name cannot be empty")
	ErrChatClientNil     = errors.New("chat client cannot be nil")
)

// ChatProvider adapts any chat-completion client into the
// AnswerProvider capability. Backend-specific response shapes are
// already normalized inside the client, so one adapter serves every
// backend.
type ChatProvider struct {
	name    string
	client  ports.ChatClient
	options map[string]any
}

var _ ports.AnswerProvider = (*ChatProvider)(nil)

// NewChatProvider creates a provider with the given stable name.
// The options map is forwarded unchanged on every request
// (max_tokens, temperature, and the like).
func NewChatProvider(name string, client ports.ChatClient, options map[string]any) (*ChatProvider, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProviderNameEmpty
	}
	if client == nil {
		return nil, ErrChatClientNil
	}
	return &ChatProvider{name: name, client: client, options: options}, nil
}

// Name returns the stable provider key.
func (p *ChatProvider) Name() string { return p.name }

// GenerateAnswer sends the question as a single user message and wraps
// the reply into a validated Response. A backend failure or empty reply
// returns an error for the collector to absorb.
func (p *ChatProvider) GenerateAnswer(ctx context.Context, q domain.Question) (domain.Response, error) {
	answer, err := p.client.Ask(ctx, []ports.ChatMessage{ports.UserMessage(q.Text)}, p.options)
	if err != nil {
		return domain.Response{}, fmt.Errorf("no response from provider %q (model=%s): %w", p.name, p.client.GetModel(), err)
	}

	resp, err := domain.NewResponse(p.name, q, answer)
	if err != nil {
		return domain.Response{}, fmt.Errorf("provider %q returned an unusable answer: %w", p.name, err)
	}
	return resp, nil
}

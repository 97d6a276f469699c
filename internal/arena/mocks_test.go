package arena

import (
	"context"
	"sync"

	"github.com/ahrav/llm-arena/internal/domain"
	"github.com/ahrav/llm-arena/internal/ports"
)

// stubChatClient is a scriptable ports.ChatClient for arena tests.
type stubChatClient struct {
	mu sync.Mutex

	reply string
	err   error
	model string

	// askFn, when set, overrides the scripted reply.
	askFn func(ctx context.Context, messages []ports.ChatMessage, options map[string]any) (string, error)

	calls        int
	lastMessages []ports.ChatMessage
	lastOptions  map[string]any
}

func (s *stubChatClient) Ask(ctx context.Context, messages []ports.ChatMessage, options map[string]any) (string, error) {
	s.mu.Lock()
	s.calls++
	s.lastMessages = messages
	s.lastOptions = options
	s.mu.Unlock()

	if s.askFn != nil {
		return s.askFn(ctx, messages, options)
	}
	return s.reply, s.err
}

func (s *stubChatClient) AskRaw(ctx context.Context, messages []ports.ChatMessage, options map[string]any) (any, error) {
	reply, err := s.Ask(ctx, messages, options)
	return reply, err
}

func (s *stubChatClient) GetModel() string {
	if s.model == "" {
		return "stub-model"
	}
	return s.model
}

var _ ports.ChatClient = (*stubChatClient)(nil)

// stubProvider is a scriptable ports.AnswerProvider.
type stubProvider struct {
	name   string
	answer string
	err    error

	// generateFn, when set, overrides the scripted behavior.
	generateFn func(ctx context.Context, q domain.Question) (domain.Response, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GenerateAnswer(ctx context.Context, q domain.Question) (domain.Response, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, q)
	}
	if s.err != nil {
		return domain.Response{}, s.err
	}
	return domain.NewResponse(s.name, q, s.answer)
}

var _ ports.AnswerProvider = (*stubProvider)(nil)

func mustQuestion(text string) domain.Question {
	q, err := domain.NewQuestion(text)
	if err != nil {
		panic(err)
	}
	return q
}

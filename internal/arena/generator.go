package arena

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahrav/llm-arena/internal/domain"
	"github.com/ahrav/llm-arena/internal/ports"
)

// Generation parameters. A high temperature keeps the generated
// questions varied across runs.
const (
	generatorTemperature = 1.0
	generatorMaxTokens   = 200
)

// defaultGeneratorSystemPrompt asks for a question hard enough to
// separate strong models from weak ones.
const defaultGeneratorSystemPrompt = `You are a question generator for evaluating large language models.
Generate one challenging, open-ended question that:
1. Requires nuanced reasoning rather than factual recall.
2. Has no single correct answer.
3. Rewards clarity and strength of argument.
4. Can be answered in a few sentences.
5. Would differentiate strong models from weak ones.
Return ONLY the question text, with no preamble or numbering.`

// shortAnswerSystemPrompt frames a caller-supplied prompt so the
// generated question stays answerable in a few sentences.
const shortAnswerSystemPrompt = "Please keep the answer short"

// QuestionGenerator produces the question every competitor will answer
// by asking a model, either with the built-in challenging-question
// instruction or with a caller-supplied prompt.
type QuestionGenerator struct {
	client ports.ChatClient
}

// NewQuestionGenerator creates a generator backed by the given client.
func NewQuestionGenerator(client ports.ChatClient) (*QuestionGenerator, error) {
	if client == nil {
		return nil, ErrChatClientNil
	}
	return &QuestionGenerator{client: client}, nil
}

// Generate asks the backing model for a question and wraps the reply
// into a validated Question. An empty prompt uses the built-in
// challenging-question instruction; a non-empty prompt is sent as the
// user message under a short-answer framing. An empty reply is an
// error; unlike answer collection, the run cannot proceed without a
// question.
func (g *QuestionGenerator) Generate(ctx context.Context, prompt string) (domain.Question, error) {
	var messages []ports.ChatMessage
	if strings.TrimSpace(prompt) == "" {
		messages = []ports.ChatMessage{
			ports.SystemMessage(defaultGeneratorSystemPrompt),
			ports.UserMessage("Generate a challenging question."),
		}
	} else {
		messages = []ports.ChatMessage{
			ports.SystemMessage(shortAnswerSystemPrompt),
			ports.UserMessage(prompt),
		}
	}

	text, err := g.client.Ask(ctx, messages, map[string]any{
		"temperature": generatorTemperature,
		"max_tokens":  generatorMaxTokens,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("question generation failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Question{}, fmt.Errorf("question generator returned an empty reply")
	}

	return domain.NewQuestion(text)
}

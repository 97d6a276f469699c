package arena

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/llm-arena/internal/ports"
)

func TestNewQuestionGenerator(t *testing.T) {
	_, err := NewQuestionGenerator(nil)
	assert.ErrorIs(t, err, ErrChatClientNil)
}

func TestQuestionGeneratorGenerate(t *testing.T) {
	client := &stubChatClient{reply: "What tradeoff defines distributed consensus?"}
	gen, err := NewQuestionGenerator(client)
	require.NoError(t, err)

	q, err := gen.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "What tradeoff defines distributed consensus?", q.Text)

	require.Len(t, client.lastMessages, 2)
	assert.Equal(t, ports.RoleSystem, client.lastMessages[0].Role)
	assert.Contains(t, client.lastMessages[0].Content, "Return ONLY the question text")
	assert.Equal(t, "Generate a challenging question.", client.lastMessages[1].Content)

	assert.Equal(t, generatorTemperature, client.lastOptions["temperature"])
	assert.Equal(t, generatorMaxTokens, client.lastOptions["max_tokens"])
}

func TestQuestionGeneratorGenerate_CustomPrompt(t *testing.T) {
	client := &stubChatClient{reply: "Which matters more, latency or consistency?"}
	gen, err := NewQuestionGenerator(client)
	require.NoError(t, err)

	q, err := gen.Generate(context.Background(), "Ask about database tradeoffs.")
	require.NoError(t, err)
	assert.Equal(t, "Which matters more, latency or consistency?", q.Text)

	require.Len(t, client.lastMessages, 2)
	assert.Equal(t, ports.RoleSystem, client.lastMessages[0].Role)
	assert.Equal(t, "Please keep the answer short", client.lastMessages[0].Content)
	assert.Equal(t, ports.RoleUser, client.lastMessages[1].Role)
	assert.Equal(t, "Ask about database tradeoffs.", client.lastMessages[1].Content)
	assert.Equal(t, 1, client.calls, "a custom prompt still goes through the model")
}

func TestQuestionGeneratorGenerate_BlankPromptUsesDefault(t *testing.T) {
	client := &stubChatClient{reply: "generated"}
	gen, err := NewQuestionGenerator(client)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "   \n ")
	require.NoError(t, err)

	assert.Contains(t, client.lastMessages[0].Content, "question generator")
	assert.Equal(t, "Generate a challenging question.", client.lastMessages[1].Content)
}

func TestQuestionGeneratorGenerate_Failures(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		gen, err := NewQuestionGenerator(&stubChatClient{err: errors.New("down")})
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "")
		assert.Error(t, err, "a run cannot proceed without a question")
	})

	t.Run("blank reply", func(t *testing.T) {
		gen, err := NewQuestionGenerator(&stubChatClient{reply: "   "})
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "any prompt")
		assert.Error(t, err)
	})
}

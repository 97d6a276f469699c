package arena

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/llm-arena/internal/ports"
)

func TestNewChatProvider(t *testing.T) {
	client := &stubChatClient{reply: "hi"}

	_, err := NewChatProvider("", client, nil)
	assert.ErrorIs(t, err, ErrProviderNameEmpty)

	_, err = NewChatProvider("  ", client, nil)
	assert.ErrorIs(t, err, ErrProviderNameEmpty)

	_, err = NewChatProvider("openai", nil, nil)
	assert.ErrorIs(t, err, ErrChatClientNil)

	p, err := NewChatProvider("openai", client, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestChatProviderGenerateAnswer(t *testing.T) {
	client := &stubChatClient{reply: "the answer"}
	p, err := NewChatProvider("openai", client, map[string]any{"max_tokens": 100})
	require.NoError(t, err)

	q := mustQuestion("what is idiomatic Go?")
	resp, err := p.GenerateAnswer(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, q, resp.Question)
	assert.Equal(t, "the answer", resp.Answer)

	require.Len(t, client.lastMessages, 1)
	assert.Equal(t, ports.RoleUser, client.lastMessages[0].Role)
	assert.Equal(t, q.Text, client.lastMessages[0].Content)
	assert.Equal(t, 100, client.lastOptions["max_tokens"])
}

func TestChatProviderGenerateAnswer_BackendFailure(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	client := &stubChatClient{err: backendErr}
	p, err := NewChatProvider("groq", client, nil)
	require.NoError(t, err)

	_, err = p.GenerateAnswer(context.Background(), mustQuestion("q"))
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), `provider "groq"`)
}

func TestChatProviderGenerateAnswer_EmptyReply(t *testing.T) {
	client := &stubChatClient{reply: ""}
	p, err := NewChatProvider("ollama", client, nil)
	require.NoError(t, err)

	_, err = p.GenerateAnswer(context.Background(), mustQuestion("q"))
	assert.Error(t, err, "a blank answer must not become a Response")
}

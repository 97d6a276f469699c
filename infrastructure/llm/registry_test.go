package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(RegistryConfig{
		Providers:      DefaultProviders,
		DefaultTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return registry
}

func TestNewRegistry_RequiresProviders(t *testing.T) {
	_, err := NewRegistry(RegistryConfig{})
	assert.Error(t, err)
}

func TestRegistryAvailable(t *testing.T) {
	registry := newTestRegistry(t)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "")

	assert.True(t, registry.Available("openai"))
	assert.False(t, registry.Available("groq"))
	assert.True(t, registry.Available("ollama"), "ollama needs no credential")
	assert.False(t, registry.Available("no-such-provider"))
}

func TestRegistryGetClient(t *testing.T) {
	registry := newTestRegistry(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	client, err := registry.GetClient("openai")
	require.NoError(t, err)
	assert.Equal(t, OpenAIDefaultModel, client.GetModel())

	again, err := registry.GetClient("openai")
	require.NoError(t, err)
	assert.Same(t, client, again, "clients must be cached per provider/model")

	other, err := registry.GetClient("openai/gpt-4o-mini")
	require.NoError(t, err)
	assert.NotSame(t, client, other)
	assert.Equal(t, "gpt-4o-mini", other.GetModel())
}

func TestRegistryGetClient_MissingCredential(t *testing.T) {
	registry := newTestRegistry(t)
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := registry.GetClient("anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestRegistryGetClient_UnknownProvider(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.GetClient("deepseek")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")

	_, err = registry.GetClient("")
	assert.Error(t, err)
}

func TestRegistryGetClient_ExplicitAPIKey(t *testing.T) {
	registry, err := NewRegistry(RegistryConfig{
		Providers: map[string]ProviderConfig{
			"openai": {Type: "openai", APIKey: "sk-direct", DefaultModel: OpenAIDefaultModel},
		},
	})
	require.NoError(t, err)

	client, err := registry.GetClient("openai")
	require.NoError(t, err)
	assert.Equal(t, OpenAIDefaultModel, client.GetModel())
}

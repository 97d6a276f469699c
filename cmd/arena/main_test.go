package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/llm-arena/internal/arena"
)

func TestProviderConfigs_CredentialPassThrough(t *testing.T) {
	cfg := &arena.Config{
		OpenAIKey:     "sk-openai",
		GroqKey:       "gsk-groq",
		AnthropicKey:  "sk-ant",
		GoogleKey:     "g-key",
		OllamaBaseURL: "http://ollama.internal:11434/v1",
	}

	providers := providerConfigs(cfg)

	assert.Equal(t, "sk-openai", providers["openai"].APIKey)
	assert.Equal(t, "gsk-groq", providers["groq"].APIKey)
	assert.Equal(t, "sk-ant", providers["anthropic"].APIKey)
	assert.Equal(t, "g-key", providers["google"].APIKey)
	assert.Equal(t, "http://ollama.internal:11434/v1", providers["ollama"].BaseURL)
	assert.True(t, providers["ollama"].KeyOptional)
}

func TestProviderConfigs_EveryCompetitorConfigured(t *testing.T) {
	providers := providerConfigs(&arena.Config{})

	for _, name := range competitorOrder {
		_, ok := providers[name]
		require.True(t, ok, "competitor %q must have a provider configuration", name)
	}
}

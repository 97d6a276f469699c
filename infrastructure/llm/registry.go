package llm

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ahrav/llm-arena/internal/ports"
)

// Registry manages chat clients for multiple providers with shared
// defaults. Clients are created lazily from environment-supplied
// credentials and cached per provider/model pair.
type Registry struct {
	providers map[string]ProviderConfig
	clients   map[string]ports.ChatClient

	defaultTimeout time.Duration
	metrics        ports.MetricsCollector
	tracing        bool
	logger         *zap.Logger

	mu sync.RWMutex
}

// ProviderConfig describes how to build clients for one provider.
type ProviderConfig struct {
	// Type names the registered provider factory (openai, groq,
	// ollama, anthropic, google).
	Type string

	// APIKey supplies the credential directly. When empty, EnvVar is
	// consulted instead.
	APIKey string

	// EnvVar is the environment variable holding the API key.
	EnvVar string

	// KeyOptional marks providers that run without a credential, such
	// as a local Ollama endpoint.
	KeyOptional bool

	// DefaultModel is used when a spec names no model.
	DefaultModel string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string
}

// RegistryConfig holds registry-wide defaults applied to every client.
type RegistryConfig struct {
	// Providers defines the available providers.
	Providers map[string]ProviderConfig

	// DefaultTimeout bounds each request for all providers.
	DefaultTimeout time.Duration

	// Metrics, when set, attaches request metrics to every client.
	Metrics ports.MetricsCollector

	// Tracing, when true, attaches OpenTelemetry spans to every client.
	Tracing bool

	// Logger is passed through to every client for diagnostics.
	Logger *zap.Logger
}

// DefaultProviders lists the standard provider configurations.
// Applications can start from this map and override models or URLs.
var DefaultProviders = map[string]ProviderConfig{
	"openai": {
		Type:         "openai",
		EnvVar:       "OPENAI_API_KEY",
		DefaultModel: OpenAIDefaultModel,
	},
	"groq": {
		Type:         "groq",
		EnvVar:       "GROQ_API_KEY",
		DefaultModel: GroqDefaultModel,
	},
	"anthropic": {
		Type:         "anthropic",
		EnvVar:       "ANTHROPIC_API_KEY",
		DefaultModel: AnthropicDefaultModel,
	},
	"google": {
		Type:         "google",
		EnvVar:       "GOOGLE_API_KEY",
		DefaultModel: GoogleDefaultModel,
	},
	"ollama": {
		Type:         "ollama",
		KeyOptional:  true,
		DefaultModel: OllamaDefaultModel,
	},
}

// NewRegistry creates a registry from the given configuration.
func NewRegistry(config RegistryConfig) (*Registry, error) {
	if len(config.Providers) == 0 {
		return nil, fmt.Errorf("providers configuration cannot be empty")
	}

	return &Registry{
		providers:      config.Providers,
		clients:        make(map[string]ports.ChatClient),
		defaultTimeout: config.DefaultTimeout,
		metrics:        config.Metrics,
		tracing:        config.Tracing,
		logger:         config.Logger,
	}, nil
}

// Available reports whether the provider's credential is present, i.e.
// whether GetClient can succeed for it.
func (r *Registry) Available(provider string) bool {
	config, exists := r.providers[provider]
	if !exists {
		return false
	}
	if config.KeyOptional || config.APIKey != "" {
		return true
	}
	return os.Getenv(config.EnvVar) != ""
}

// GetClient retrieves a client by "provider" or "provider/model" spec,
// creating and caching it on first use. A missing credential for a
// provider that requires one is a configuration error.
func (r *Registry) GetClient(spec string) (ports.ChatClient, error) {
	if spec == "" {
		return nil, fmt.Errorf("provider specification cannot be empty")
	}

	provider, model := r.parseSpec(spec)
	key := provider + "/" + model

	r.mu.RLock()
	if client, exists := r.clients[key]; exists {
		r.mu.RUnlock()
		return client, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, exists := r.clients[key]; exists {
		return client, nil
	}

	client, err := r.createClient(provider, model)
	if err != nil {
		return nil, err
	}

	r.clients[key] = client
	return client, nil
}

func (r *Registry) parseSpec(spec string) (provider, model string) {
	parts := strings.SplitN(spec, "/", 2)
	provider = parts[0]
	if len(parts) > 1 {
		model = parts[1]
	} else if config, ok := r.providers[provider]; ok {
		model = config.DefaultModel
	}
	return
}

func (r *Registry) createClient(provider, model string) (ports.ChatClient, error) {
	providerConfig, exists := r.providers[provider]
	if !exists {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	apiKey := providerConfig.APIKey
	if apiKey == "" && providerConfig.EnvVar != "" {
		apiKey = os.Getenv(providerConfig.EnvVar)
	}
	if apiKey == "" && !providerConfig.KeyOptional {
		return nil, fmt.Errorf("%s environment variable not set for provider %q", providerConfig.EnvVar, provider)
	}

	var middleware []Middleware
	if r.metrics != nil {
		middleware = append(middleware, MetricsMiddleware(provider, r.metrics))
	}
	if r.tracing {
		middleware = append(middleware, TracingMiddleware(provider))
	}

	return NewClient(providerConfig.Type, ClientConfig{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    providerConfig.BaseURL,
		Timeout:    r.defaultTimeout,
		Middleware: middleware,
		Logger:     r.logger,
	})
}

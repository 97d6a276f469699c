package arena

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the environment-supplied runtime configuration. The OpenAI
// key is required because it powers question generation and judging;
// every other provider is optional and skipped when its key is absent.
type Config struct {
	OpenAIKey    string `env:"OPENAI_API_KEY,required"`
	GroqKey      string `env:"GROQ_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
	GoogleKey    string `env:"GOOGLE_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`

	// Timeout bounds every chat-completion request.
	Timeout time.Duration `env:"ARENA_TIMEOUT" envDefault:"30s"`

	// QuestionPrompt, when set, is sent to the generator model under a
	// short-answer framing instead of the built-in
	// challenging-question instruction.
	QuestionPrompt string `env:"ARENA_QUESTION"`

	// Debug switches the logger to development output.
	Debug bool `env:"ARENA_DEBUG"`

	// ConfigFile optionally points to a YAML file overriding models and
	// judge settings.
	ConfigFile string `env:"ARENA_CONFIG"`

	// File holds the parsed contents of ConfigFile, or defaults.
	File FileConfig
}

// FileConfig is the optional YAML overlay: per-provider model overrides
// plus judge tuning.
type FileConfig struct {
	// Models maps provider name to model identifier, e.g.
	// "anthropic: claude-3-5-sonnet-20241022".
	Models map[string]string `yaml:"models"`

	// Judge selects the judging client as "provider" or
	// "provider/model" and carries its call parameters.
	Judge JudgeFileConfig `yaml:"judge"`

	// Parallel switches response collection from sequential to
	// concurrent fan-out.
	Parallel bool `yaml:"parallel"`

	// MaxConcurrency bounds parallel collection. Zero means the
	// default.
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=0,max=64"`
}

// JudgeFileConfig is the judge section of the YAML overlay.
type JudgeFileConfig struct {
	Spec      string        `yaml:"spec"`
	MaxTokens int           `yaml:"max_tokens" validate:"min=0,max=2000"`
	Timeout   time.Duration `yaml:"timeout" validate:"min=0"`
}

var configValidator = validator.New()

// LoadConfig reads configuration from the environment and, when
// ARENA_CONFIG is set, overlays the YAML file on top of the defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment configuration: %w", err)
	}

	if cfg.ConfigFile != "" {
		fileCfg, err := loadFileConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.File = *fileCfg
	}

	return cfg, nil
}

// JudgeConfig resolves the judge call parameters, falling back to the
// standard defaults where the overlay leaves fields unset.
func (c *Config) JudgeConfig() JudgeConfig {
	jc := DefaultJudgeConfig()
	if c.File.Judge.MaxTokens > 0 {
		jc.MaxTokens = c.File.Judge.MaxTokens
	}
	if c.File.Judge.Timeout > 0 {
		jc.Timeout = c.File.Judge.Timeout
	}
	return jc
}

// JudgeSpec returns the "provider" or "provider/model" spec for the
// judging client. The default judge is OpenAI.
func (c *Config) JudgeSpec() string {
	if c.File.Judge.Spec != "" {
		return c.File.Judge.Spec
	}
	return "openai"
}

// ModelSpec returns the registry spec for a provider, honoring any
// model override from the YAML overlay.
func (c *Config) ModelSpec(provider string) string {
	if model, ok := c.File.Models[provider]; ok && model != "" {
		return provider + "/" + model
	}
	return provider
}

func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := configValidator.Struct(&fileCfg); err != nil {
		return nil, fmt.Errorf("config file %s validation failed: %w", path, err)
	}

	return &fileCfg, nil
}

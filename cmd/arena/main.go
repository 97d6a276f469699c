// Command arena runs a head-to-head comparison of LLM providers: it
// generates a question, collects an answer from every configured
// provider, reports answer similarity, and asks an anonymized judge to
// rank the answers. All configuration comes from the environment.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ahrav/llm-arena/infrastructure/llm"
	"github.com/ahrav/llm-arena/infrastructure/middleware"
	"github.com/ahrav/llm-arena/internal/arena"
)

// competitorOrder fixes the provider lineup. Registration order decides
// both collection order and the judge's competitor numbering.
var competitorOrder = []string{"openai", "groq", "anthropic", "google", "ollama"}

// answerLengthInstruction is appended to the question before it is sent
// to competitors, so answers stay comparable in length.
const answerLengthInstruction = "\n\nPlease answer in no more than three sentences."

func main() {
	// A missing .env file is fine; real environments set variables
	// directly.
	_ = godotenv.Load()

	cfg, err := arena.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("arena run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *arena.Config, logger *zap.Logger) error {
	metrics := middleware.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	registry, err := llm.NewRegistry(llm.RegistryConfig{
		Providers:      providerConfigs(cfg),
		DefaultTimeout: cfg.Timeout,
		Metrics:        metrics,
		Tracing:        true,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	judgeClient, err := registry.GetClient(cfg.JudgeSpec())
	if err != nil {
		return fmt.Errorf("judge client: %w", err)
	}

	generator, err := arena.NewQuestionGenerator(judgeClient)
	if err != nil {
		return err
	}

	fmt.Println("Generating a question...")
	q, err := generator.Generate(ctx, cfg.QuestionPrompt)
	if err != nil {
		return err
	}

	fmt.Printf("Question (%s):\n%s\n", q.ID, q.Text)

	// Competitors and the judge both see the augmented question, so
	// the judge evaluates answers against the brevity constraint the
	// competitors were held to.
	asked, err := q.WithText(q.Text + answerLengthInstruction)
	if err != nil {
		return err
	}

	set, err := buildProviderSet(cfg, registry, logger)
	if err != nil {
		return err
	}
	if set.Len() == 0 {
		return fmt.Errorf("no providers available; set at least one API key")
	}

	collector := arena.NewCollector(os.Stdout)
	var collected *arena.CollectedResponses
	if cfg.File.Parallel {
		collected = collector.CollectParallel(ctx, set, asked, cfg.File.MaxConcurrency)
	} else {
		collected = collector.Collect(ctx, set, asked)
	}

	arena.AnalyzeSimilarity(collected).Print(os.Stdout)

	judge, err := arena.NewJudge(judgeClient, cfg.JudgeConfig(), os.Stdout)
	if err != nil {
		return err
	}
	if _, err := judge.Rank(ctx, asked, collected); err != nil {
		return err
	}
	return nil
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// providerConfigs merges the standard provider table with the parsed
// credentials and endpoint overrides, so the registry never has to
// consult the environment again.
func providerConfigs(cfg *arena.Config) map[string]llm.ProviderConfig {
	keys := map[string]string{
		"openai":    cfg.OpenAIKey,
		"groq":      cfg.GroqKey,
		"anthropic": cfg.AnthropicKey,
		"google":    cfg.GoogleKey,
	}

	providers := make(map[string]llm.ProviderConfig, len(llm.DefaultProviders))
	for name, pc := range llm.DefaultProviders {
		pc.APIKey = keys[name]
		providers[name] = pc
	}

	ollama := providers["ollama"]
	ollama.BaseURL = cfg.OllamaBaseURL
	providers["ollama"] = ollama

	return providers
}

// buildProviderSet registers every competitor whose credentials are
// present, skipping the rest with a notice.
func buildProviderSet(cfg *arena.Config, registry *llm.Registry, logger *zap.Logger) (*arena.ProviderSet, error) {
	set := arena.NewProviderSet()

	for _, name := range competitorOrder {
		if !registry.Available(name) {
			fmt.Printf("Skipping provider '%s': no API key configured.\n", name)
			continue
		}

		client, err := registry.GetClient(cfg.ModelSpec(name))
		if err != nil {
			logger.Warn("skipping provider", zap.String("provider", name), zap.Error(err))
			continue
		}

		provider, err := arena.NewChatProvider(name, client, nil)
		if err != nil {
			return nil, err
		}
		if err := set.Register(provider); err != nil {
			return nil, err
		}
	}

	return set, nil
}

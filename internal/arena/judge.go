package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/llm-arena/internal/domain"
	"github.com/ahrav/llm-arena/internal/ports"
)

// Defaults for the judge configuration.
const (
	DefaultJudgeMaxTokens = 300
	DefaultJudgeTimeout   = 30 * time.Second

	// judgeSystemPrompt frames the judge as impartial; competitor
	// identities are hidden so the model cannot favor a provider by
	// name.
	judgeSystemPrompt = "You are an impartial judge of answer quality."
)

// Construction errors for the Judge.
var ErrJudgeClientNil = errors.New("judge chat client cannot be nil")

// Shared validator instance, matching the configuration validation used
// elsewhere in the arena.
var judgeValidator = validator.New()

// JudgeConfig defines the parameters of a judging call.
type JudgeConfig struct {
	// MaxTokens limits the length of the judge's ranking reply.
	MaxTokens int `yaml:"max_tokens" validate:"required,min=50,max=2000"`

	// Timeout bounds the single judge request.
	Timeout time.Duration `yaml:"timeout" validate:"required,min=1s,max=300s"`
}

// DefaultJudgeConfig returns the standard judging parameters.
func DefaultJudgeConfig() JudgeConfig {
	return JudgeConfig{MaxTokens: DefaultJudgeMaxTokens, Timeout: DefaultJudgeTimeout}
}

// JudgeOutcome is the terminal condition of one judging run.
type JudgeOutcome int

const (
	// OutcomeRanked means a ranking was produced (possibly with skipped
	// entries).
	OutcomeRanked JudgeOutcome = iota
	// OutcomeNotEnoughCompetitors means fewer than two providers had a
	// valid response; judging was not attempted.
	OutcomeNotEnoughCompetitors
	// OutcomeNoReply means the judge model returned no response.
	OutcomeNoReply
	// OutcomeParseFailed means the judge reply was not the required
	// JSON shape.
	OutcomeParseFailed
)

// RankEntry is one line of the final ranking: the 1-based rank, the
// transient competitor number the judge saw, and the real provider.
type RankEntry struct {
	Rank       int
	Competitor int
	Provider   string
}

// JudgeReport captures everything a judging run decided, for callers
// that want the result programmatically in addition to the printed
// trace.
type JudgeReport struct {
	// Outcome is the terminal condition of the run.
	Outcome JudgeOutcome

	// Skipped lists providers excluded for having no valid response.
	Skipped []string

	// Rankings holds the successfully re-mapped entries, best first.
	Rankings []RankEntry

	// RawReply is the judge's unparsed output, kept for diagnostics
	// when parsing fails.
	RawReply string
}

// Judge ranks collected responses without revealing provider
// identities. Competitors are numbered 1..N in collection order; the
// judge sees only numbers and answers, and its JSON ranking is mapped
// back to provider names for display. The judge step is advisory:
// every protocol failure is absorbed into the report, never raised.
type Judge struct {
	client ports.ChatClient
	config JudgeConfig
	out    io.Writer
}

// NewJudge creates a judge backed by the given chat client.
func NewJudge(client ports.ChatClient, config JudgeConfig, out io.Writer) (*Judge, error) {
	if client == nil {
		return nil, ErrJudgeClientNil
	}
	if err := judgeValidator.Struct(config); err != nil {
		return nil, fmt.Errorf("judge configuration validation failed: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Judge{client: client, config: config, out: out}, nil
}

// Rank filters, anonymizes, prompts, parses, and re-maps. The returned
// report is never nil; the error is reserved for caller defects (it is
// nil for every backend or protocol failure).
func (j *Judge) Rank(ctx context.Context, q domain.Question, collected *CollectedResponses) (*JudgeReport, error) {
	report := &JudgeReport{}

	// Partition into competitors and skipped providers.
	var competitors []domain.Response
	for _, name := range collected.Providers() {
		resp, _ := collected.Get(name)
		if resp == nil {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		competitors = append(competitors, *resp)
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(j.out, "\nThe following providers had no valid response and will be skipped by the judge:")
		for _, name := range report.Skipped {
			fmt.Fprintf(j.out, "  - %s\n", name)
		}
	}

	// No ranking is meaningful with fewer than two candidates.
	if len(competitors) < 2 {
		fmt.Fprintln(j.out, "\nNot enough valid responses to perform judging.")
		report.Outcome = OutcomeNotEnoughCompetitors
		return report, nil
	}

	// Competitor numbers are assigned in collection order and are
	// never reused for providers whose response was absent.
	numberToProvider := make(map[int]string, len(competitors))
	for i, resp := range competitors {
		numberToProvider[i+1] = resp.Provider
	}

	prompt := buildJudgePrompt(q, competitors)
	messages := []ports.ChatMessage{
		ports.SystemMessage(judgeSystemPrompt),
		ports.UserMessage(prompt),
	}

	callCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	fmt.Fprintln(j.out, "\nAsking the judge to rank the responses...")
	raw, err := j.client.Ask(callCtx, messages, map[string]any{"max_tokens": j.config.MaxTokens})
	if err != nil || raw == "" {
		fmt.Fprintln(j.out, "Judge did not return a response.")
		report.Outcome = OutcomeNoReply
		return report, nil
	}
	report.RawReply = raw

	order, err := parseJudgeReply(raw)
	if err != nil {
		fmt.Fprintf(j.out, "Failed to parse judge JSON response: %v\n", err)
		fmt.Fprintf(j.out, "Raw judge output: %s\n", raw)
		report.Outcome = OutcomeParseFailed
		return report, nil
	}

	fmt.Fprintln(j.out, "\nJudge ranking (best to worst):")
	for i, item := range order {
		rank := i + 1
		num, ok := competitorNumber(item)
		if !ok {
			fmt.Fprintf(j.out, "  Rank %d: invalid competitor identifier %q\n", rank, fmt.Sprintf("%v", item))
			continue
		}
		provider, ok := numberToProvider[num]
		if !ok {
			fmt.Fprintf(j.out, "  Rank %d: unknown competitor number %d\n", rank, num)
			continue
		}
		fmt.Fprintf(j.out, "  %d. %s (competitor %d)\n", rank, provider, num)
		report.Rankings = append(report.Rankings, RankEntry{Rank: rank, Competitor: num, Provider: provider})
	}

	report.Outcome = OutcomeRanked
	return report, nil
}

// buildJudgePrompt assembles the judging instruction: the question, the
// anonymized answers labeled only by number, and a strict JSON output
// contract that forbids markdown wrapping.
func buildJudgePrompt(q domain.Question, competitors []domain.Response) string {
	var together strings.Builder
	for i, resp := range competitors {
		fmt.Fprintf(&together, "Competitor %d:\n%s\n\n", i+1, resp.Answer)
	}

	return fmt.Sprintf(
		"You are judging a competition between %d competitors.\n"+
			"Each model has been given this question:\n\n"+
			"%s\n\n"+
			"Your job is to evaluate each response for clarity and strength of argument, "+
			"and rank them in order of best to worst.\n"+
			"Respond with JSON, and only JSON, with the following format:\n"+
			`{"results": ["best competitor number", "second best competitor number", "third best competitor number", ...]}`+
			"\n\nHere are the responses from each competitor:\n\n"+
			"%s\n\n"+
			"Now respond with the JSON with the ranked order of the competitors, nothing else. "+
			"Do not include markdown formatting or code blocks.",
		len(competitors), q.Text, strings.TrimSpace(together.String()),
	)
}

// parseJudgeReply parses the reply strictly as JSON and requires a
// top-level object with a "results" key bound to a sequence. Any other
// shape is an error for the caller to report.
func parseJudgeReply(raw string) ([]any, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}

	resultsRaw, ok := payload["results"]
	if !ok {
		return nil, fmt.Errorf("judge reply has no \"results\" key")
	}

	var order []any
	if err := json.Unmarshal(resultsRaw, &order); err != nil {
		return nil, fmt.Errorf("\"results\" must be a list: %w", err)
	}
	return order, nil
}

// competitorNumber interprets one ranking entry as a competitor number.
// Entries arrive as JSON strings ("2") per the contract, but integral
// JSON numbers are tolerated.
func competitorNumber(item any) (int, bool) {
	switch v := item.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

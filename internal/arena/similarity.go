package arena

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// caseFolder normalizes answers before comparison so that differences
// in capitalization do not count as distance.
var caseFolder = cases.Fold()

// SimilarityPair is the normalized edit similarity between the answers
// of two providers, in [0, 1] where 1 means identical after folding.
type SimilarityPair struct {
	ProviderA string
	ProviderB string
	Score     float64
}

// SimilarityReport holds all pairwise answer similarities for one run.
type SimilarityReport struct {
	Pairs []SimilarityPair
}

// MostSimilar returns the highest-scoring pair, or false when fewer
// than two answers were available.
func (r *SimilarityReport) MostSimilar() (SimilarityPair, bool) {
	if len(r.Pairs) == 0 {
		return SimilarityPair{}, false
	}
	best := r.Pairs[0]
	for _, p := range r.Pairs[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, true
}

// AnalyzeSimilarity computes pairwise similarity over every pair of
// collected answers, in collection order. Providers without a response
// are ignored. The report is advisory and never affects judging.
func AnalyzeSimilarity(collected *CollectedResponses) *SimilarityReport {
	var names []string
	answers := make(map[string]string)
	for _, name := range collected.Providers() {
		resp, _ := collected.Get(name)
		if resp == nil {
			continue
		}
		names = append(names, name)
		answers[name] = caseFolder.String(resp.Answer)
	}

	report := &SimilarityReport{}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			report.Pairs = append(report.Pairs, SimilarityPair{
				ProviderA: names[i],
				ProviderB: names[j],
				Score:     similarityScore(answers[names[i]], answers[names[j]]),
			})
		}
	}
	return report
}

// similarityScore converts edit distance into a similarity ratio,
// normalized by the longer answer's rune count.
func similarityScore(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// Print writes the report in trace form: every pair's score plus a
// call-out of the most similar pair.
func (r *SimilarityReport) Print(out io.Writer) {
	if len(r.Pairs) == 0 {
		return
	}

	fmt.Fprintln(out, "\nAnswer similarity (1.00 = identical):")
	for _, p := range r.Pairs {
		fmt.Fprintf(out, "  %s vs %s: %.2f\n", p.ProviderA, p.ProviderB, p.Score)
	}
	if best, ok := r.MostSimilar(); ok {
		fmt.Fprintf(out, "Most similar answers: %s and %s (%.2f)\n", best.ProviderA, best.ProviderB, best.Score)
	}
}

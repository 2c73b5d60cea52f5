package sentiment

import (
	"context"
	"strings"

	"github.com/signalyze/sentinel/internal/domain"
)

// Lexicon holds two disjoint sets of lowercase marker words.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// DefaultLexicon returns the built-in marker sets. Markers are matched as
// substrings, so "drain" also covers "drains" and "drained".
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{
			"great", "love", "good", "excellent", "awesome", "amazing",
			"best", "smooth", "happy", "comfortable", "impressive", "worth",
		},
		Negative: []string{
			"poor", "bad", "terrible", "worst", "hate", "drain", "problem",
			"issue", "broken", "disappoint", "awful", "waste",
		},
	}
}

// LexiconScorer is the deterministic strategy: strength is the count of
// positive markers present minus the count of negative markers present,
// each marker contributing at most once regardless of repeats. It is total
// and side-effect-free; Score never returns an error.
type LexiconScorer struct {
	positive []string
	negative []string
}

// NewLexiconScorer builds a scorer from the given lexicon. Markers are
// lowercased; blank entries are dropped.
func NewLexiconScorer(lex Lexicon) *LexiconScorer {
	return &LexiconScorer{
		positive: normalizeMarkers(lex.Positive),
		negative: normalizeMarkers(lex.Negative),
	}
}

func normalizeMarkers(markers []string) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Name implements Scorer.
func (s *LexiconScorer) Name() string { return "lexicon" }

// Score implements Scorer.
func (s *LexiconScorer) Score(_ context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = s.scoreOne(text)
	}
	return results, nil
}

func (s *LexiconScorer) scoreOne(text string) Result {
	lowered := strings.ToLower(text)

	strength := 0
	for _, marker := range s.positive {
		if strings.Contains(lowered, marker) {
			strength++
		}
	}
	for _, marker := range s.negative {
		if strings.Contains(lowered, marker) {
			strength--
		}
	}

	label := domain.SentimentNeutral
	switch {
	case strength > 0:
		label = domain.SentimentPositive
	case strength < 0:
		label = domain.SentimentNegative
	}

	return Result{Label: label, Score: float64(strength)}
}

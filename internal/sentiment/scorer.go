// Package sentiment assigns a three-way sentiment label plus a strength
// signal to comment text, via a pluggable strategy.
package sentiment

import (
	"context"

	"github.com/signalyze/sentinel/internal/domain"
)

// Result is one scored text: the label and a signed strength signal. For
// the lexicon strategy the score is the positive-minus-negative marker
// count; for a delegated model it is the winning class probability.
type Result struct {
	Label domain.Sentiment `json:"label"`
	Score float64          `json:"score"`
}

// Scorer scores a batch of texts, returning one Result per input text in
// input order. A Scorer failure is pipeline-fatal: callers must not
// substitute default labels for individual records.
type Scorer interface {
	Name() string
	Score(ctx context.Context, texts []string) ([]Result, error)
}

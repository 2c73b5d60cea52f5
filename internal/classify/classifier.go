// Package classify assigns a three-level topic category to scored
// comments, either from an ordered keyword rule table or by delegating to
// a zero-shot model.
package classify

import (
	"context"

	"github.com/signalyze/sentinel/internal/domain"
)

// Assignment is the category triple produced for one comment. Confidence
// is only meaningful for the zero-shot variant; the rule table either
// matches or falls back to Other.
type Assignment struct {
	Category1  string  `json:"category1"`
	Category2  string  `json:"category2"`
	Category3  string  `json:"category3"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Classifier assigns a category to one comment whose sentiment is already
// set. Implementations must be deterministic for identical input.
type Classifier interface {
	Name() string
	Assign(ctx context.Context, label domain.Sentiment, content string) (Assignment, error)
}

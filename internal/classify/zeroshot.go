package classify

import (
	"context"
	"fmt"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/inference"
	"github.com/signalyze/sentinel/internal/logger"
)

// ZeroShotModel is the delegated capability: best label for a text given
// candidate labels, with a confidence score.
type ZeroShotModel interface {
	ZeroShot(ctx context.Context, text string, candidates []string) (inference.LabelScore, error)
}

// ZeroShotClassifier delegates topic labeling to a zero-shot model. Only
// the top-level category is produced; category2 and category3 stay empty.
type ZeroShotClassifier struct {
	model           ZeroShotModel
	candidates      []string
	classifyNeutral bool
	logger          logger.Logger
}

// NewZeroShotClassifier creates a ZeroShotClassifier. An empty candidates
// slice falls back to the default label set.
func NewZeroShotClassifier(model ZeroShotModel, candidates []string, classifyNeutral bool, log logger.Logger) *ZeroShotClassifier {
	if len(candidates) == 0 {
		candidates = DefaultZeroShotLabels()
	}
	return &ZeroShotClassifier{
		model:           model,
		candidates:      candidates,
		classifyNeutral: classifyNeutral,
		logger:          log,
	}
}

// Name implements Classifier.
func (c *ZeroShotClassifier) Name() string { return "zeroshot" }

// Assign implements Classifier. Model failures propagate: retries were
// already spent inside the invoker, so this is pipeline-fatal.
func (c *ZeroShotClassifier) Assign(ctx context.Context, label domain.Sentiment, content string) (Assignment, error) {
	if label == domain.SentimentNeutral && !c.classifyNeutral {
		return Assignment{}, nil
	}

	ls, err := c.model.ZeroShot(ctx, content, c.candidates)
	if err != nil {
		return Assignment{}, fmt.Errorf("zero-shot classification: %w", err)
	}

	return Assignment{Category1: ls.Label, Confidence: ls.Score}, nil
}

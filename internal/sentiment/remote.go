package sentiment

import (
	"context"
	"fmt"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/inference"
	"github.com/signalyze/sentinel/internal/logger"
)

// Model is the delegated classification capability the remote strategy
// needs: one probability distribution per text, in input order.
type Model interface {
	SentimentBatch(ctx context.Context, texts []string) ([]inference.Distribution, error)
}

// RemoteScorer delegates scoring to a probabilistic model behind the
// retrying invoker. Label is the argmax class, strength the winning
// probability. A model failure is returned as-is: it means retries were
// exhausted or the call was rejected outright, and the pipeline must stop
// rather than fabricate labels.
type RemoteScorer struct {
	model  Model
	logger logger.Logger
}

// NewRemoteScorer creates a RemoteScorer.
func NewRemoteScorer(model Model, log logger.Logger) *RemoteScorer {
	return &RemoteScorer{model: model, logger: log}
}

// Name implements Scorer.
func (s *RemoteScorer) Name() string { return "remote" }

// Score implements Scorer.
func (s *RemoteScorer) Score(ctx context.Context, texts []string) ([]Result, error) {
	dists, err := s.model.SentimentBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("remote sentiment scoring: %w", err)
	}
	if len(dists) != len(texts) {
		return nil, fmt.Errorf("remote sentiment scoring: got %d results for %d texts", len(dists), len(texts))
	}

	results := make([]Result, len(dists))
	for i, dist := range dists {
		results[i] = argmax(dist)
	}
	return results, nil
}

// argmax picks the winning class; ties resolve to the lowest-indexed class
// in the fixed order [negative, neutral, positive].
func argmax(dist inference.Distribution) Result {
	best := 0
	for idx := 1; idx < len(dist); idx++ {
		if dist[idx] > dist[best] {
			best = idx
		}
	}
	return Result{Label: domain.SentimentClasses[best], Score: dist[best]}
}

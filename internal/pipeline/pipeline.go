// Package pipeline orchestrates the analysis stages: normalize, dedup,
// relevance filter, sentiment, classification, aggregation. Stages run
// sequentially; only the remote model calls block on the network.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signalyze/sentinel/internal/aggregate"
	"github.com/signalyze/sentinel/internal/classify"
	"github.com/signalyze/sentinel/internal/dedup"
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/normalize"
	"github.com/signalyze/sentinel/internal/relevance"
	"github.com/signalyze/sentinel/internal/sentiment"
	"github.com/signalyze/sentinel/internal/storage"
	"github.com/signalyze/sentinel/internal/telemetry"
)

// Stage names used in logs and metrics.
const (
	StageNormalize = "normalize"
	StageDedup     = "dedup"
	StageRelevance = "relevance"
	StageSentiment = "sentiment"
	StageClassify  = "classify"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Run      storage.Run
	Comments []domain.AnnotatedComment
	Summary  aggregate.Summary
}

// Pipeline wires the stages together. Repo is optional; when nil, results
// are not persisted.
type Pipeline struct {
	normalizer *normalize.Normalizer
	dedup      *dedup.Deduplicator
	filter     *relevance.Filter
	scorer     sentiment.Scorer
	classifier classify.Classifier
	aggregator *aggregate.Aggregator
	repo       *storage.RunRepository
	telemetry  *telemetry.Provider
	logger     logger.Logger
	now        func() time.Time
}

// New assembles a pipeline from already-constructed stages.
func New(
	filter *relevance.Filter,
	scorer sentiment.Scorer,
	classifier classify.Classifier,
	aggregator *aggregate.Aggregator,
	repo *storage.RunRepository,
	provider *telemetry.Provider,
	log logger.Logger,
) *Pipeline {
	if provider == nil {
		provider = telemetry.NewProvider()
	}
	return &Pipeline{
		normalizer: normalize.NewNormalizer(log),
		dedup:      dedup.NewDeduplicator(log),
		filter:     filter,
		scorer:     scorer,
		classifier: classifier,
		aggregator: aggregator,
		repo:       repo,
		telemetry:  provider,
		logger:     log,
		now:        time.Now,
	}
}

// Scorer returns the sentiment strategy in use.
func (p *Pipeline) Scorer() sentiment.Scorer { return p.scorer }

// Classifier returns the topic strategy in use.
func (p *Pipeline) Classifier() classify.Classifier { return p.classifier }

// Rules returns the flattened rule table when the rule strategy is
// active, nil otherwise.
func (p *Pipeline) Rules() []domain.ClassificationRule {
	if rc, ok := p.classifier.(*classify.RuleClassifier); ok {
		return rc.Rules()
	}
	return nil
}

// Run executes all stages over raw and returns the annotated comments and
// their summary. A stage error aborts the run; partial results are
// discarded.
func (p *Pipeline) Run(ctx context.Context, raw []domain.RawComment) (*Result, error) {
	runID := uuid.NewString()
	started := p.now()
	log := p.logger.With(logger.String("run_id", runID))
	log.Info("pipeline run starting",
		logger.Int("input", len(raw)),
		logger.String("sentiment_strategy", p.scorer.Name()),
		logger.String("topic_strategy", p.classifier.Name()))

	comments, normStats := p.normalizer.Normalize(raw)
	p.telemetry.RecordStage(StageNormalize, normStats.In, normStats.Out, normStats.Dropped)

	deduped, duplicates := p.dedup.Deduplicate(comments)
	p.telemetry.RecordStage(StageDedup, len(comments), len(deduped), duplicates)

	relevant, relStats := p.filter.Apply(deduped)
	p.telemetry.RecordStage(StageRelevance,
		relStats.In, relStats.Out, relStats.DroppedKeyword+relStats.DroppedLanguage)

	annotated, err := p.annotate(ctx, relevant)
	if err != nil {
		return nil, err
	}

	summary := p.aggregator.Summarize(annotated)

	run := storage.Run{
		ID:              runID,
		StartedAt:       started,
		FinishedAt:      p.now(),
		InputCount:      len(raw),
		NormalizedCount: normStats.Out,
		DedupedCount:    len(deduped),
		RelevantCount:   len(relevant),
		AnnotatedCount:  len(annotated),
	}
	if p.repo != nil {
		if err := p.repo.SaveRun(ctx, &run, annotated); err != nil {
			return nil, fmt.Errorf("store stage: %w", err)
		}
	}

	p.telemetry.RecordRun(run.FinishedAt.Sub(run.StartedAt))
	log.Info("pipeline run complete",
		logger.Int("annotated", len(annotated)),
		logger.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)))

	return &Result{Run: run, Comments: annotated, Summary: summary}, nil
}

// annotate runs the sentiment and classification stages. Sentiment is
// scored over the whole batch at once so the remote strategy can chunk
// requests; classification then runs per comment.
func (p *Pipeline) annotate(ctx context.Context, comments []domain.Comment) ([]domain.AnnotatedComment, error) {
	if len(comments) == 0 {
		return nil, nil
	}

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Content
	}

	scores, err := p.scorer.Score(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("sentiment stage: %w", err)
	}
	if len(scores) != len(comments) {
		return nil, fmt.Errorf("sentiment stage: got %d results for %d comments", len(scores), len(comments))
	}

	annotated := make([]domain.AnnotatedComment, len(comments))
	for i, c := range comments {
		p.telemetry.RecordSentiment(string(scores[i].Label))

		assignment, err := p.classifier.Assign(ctx, scores[i].Label, c.Content)
		if err != nil {
			return nil, fmt.Errorf("classify stage: %w", err)
		}

		annotated[i] = domain.AnnotatedComment{
			Comment:        c,
			Sentiment:      scores[i].Label,
			SentimentScore: scores[i].Score,
			Category1:      assignment.Category1,
			Category2:      assignment.Category2,
			Category3:      assignment.Category3,
		}
	}
	p.telemetry.RecordStage(StageSentiment, len(comments), len(comments), 0)
	p.telemetry.RecordStage(StageClassify, len(comments), len(comments), 0)
	return annotated, nil
}

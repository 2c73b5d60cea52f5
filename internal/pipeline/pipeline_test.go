package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalyze/sentinel/internal/aggregate"
	"github.com/signalyze/sentinel/internal/classify"
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/relevance"
	"github.com/signalyze/sentinel/internal/sentiment"
	"github.com/signalyze/sentinel/internal/storage"
	"github.com/signalyze/sentinel/internal/telemetry"
)

func newTestPipeline(t *testing.T, relevanceCfg relevance.Config, repo *storage.RunRepository) *Pipeline {
	t.Helper()
	log := logger.NewNop()

	filter, err := relevance.NewFilter(relevanceCfg, nil, log)
	require.NoError(t, err)

	scorer := sentiment.NewLexiconScorer(sentiment.DefaultLexicon())
	classifier := classify.NewRuleClassifier(classify.DefaultRuleTable(), false, log)
	aggregator := aggregate.NewAggregator(5, log)

	return New(filter, scorer, classifier, aggregator, repo, telemetry.NewProvider(), log)
}

func raw(content string) domain.RawComment {
	return domain.RawComment{Source: "reddit", Content: content}
}

func TestRun_EndToEnd(t *testing.T) {
	p := newTestPipeline(t, relevance.Config{}, nil)

	res, err := p.Run(context.Background(), []domain.RawComment{
		raw("Great fast charging, love it! https://example.com/post"),
		raw("Battery drains too quickly, very poor"),
	})
	require.NoError(t, err)
	require.Len(t, res.Comments, 2)

	first := res.Comments[0]
	assert.Equal(t, "Great fast charging, love it!", first.Content)
	assert.Equal(t, domain.SentimentPositive, first.Sentiment)
	assert.Equal(t, 2.0, first.SentimentScore)
	assert.Equal(t, "Product", first.Category1)
	assert.Equal(t, "Battery & Range", first.Category2)

	second := res.Comments[1]
	assert.Equal(t, domain.SentimentNegative, second.Sentiment)
	assert.Equal(t, -2.0, second.SentimentScore)
	assert.Equal(t, "Product", second.Category1)
	assert.Equal(t, "Battery & Range", second.Category2)

	assert.Equal(t, 2, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.BySentiment[domain.SentimentPositive])
	assert.Equal(t, 1, res.Summary.BySentiment[domain.SentimentNegative])
}

func TestRun_StageCounts(t *testing.T) {
	p := newTestPipeline(t, relevance.Config{Keywords: []string{"battery"}}, nil)

	res, err := p.Run(context.Background(), []domain.RawComment{
		raw("battery is great"),
		raw("battery is great"),
		raw("completely unrelated chatter"),
		raw("   "),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Run.InputCount)
	assert.Equal(t, 3, res.Run.NormalizedCount)
	assert.Equal(t, 2, res.Run.DedupedCount)
	assert.Equal(t, 1, res.Run.RelevantCount)
	assert.Equal(t, 1, res.Run.AnnotatedCount)
	assert.NotEmpty(t, res.Run.ID)
}

func TestRun_NeutralSkipsClassification(t *testing.T) {
	p := newTestPipeline(t, relevance.Config{}, nil)

	res, err := p.Run(context.Background(), []domain.RawComment{
		raw("the battery exists"),
	})
	require.NoError(t, err)
	require.Len(t, res.Comments, 1)

	assert.Equal(t, domain.SentimentNeutral, res.Comments[0].Sentiment)
	assert.Empty(t, res.Comments[0].Category1)
}

func TestRun_EmptyInput(t *testing.T) {
	p := newTestPipeline(t, relevance.Config{}, nil)

	res, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Comments)
	assert.Equal(t, 0, res.Summary.Total)
}

func TestRun_PersistsToRepo(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := storage.NewRunRepository(db)

	p := newTestPipeline(t, relevance.Config{}, repo)

	res, err := p.Run(context.Background(), []domain.RawComment{
		raw("love the smooth ride"),
	})
	require.NoError(t, err)

	stored, err := repo.GetRun(context.Background(), res.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AnnotatedCount)

	comments, err := repo.GetComments(context.Background(), res.Run.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.SentimentPositive, comments[0].Sentiment)
}

type failingScorer struct{}

func (failingScorer) Name() string { return "failing" }
func (failingScorer) Score(context.Context, []string) ([]sentiment.Result, error) {
	return nil, assert.AnError
}

func TestRun_SentimentErrorAborts(t *testing.T) {
	p := newTestPipeline(t, relevance.Config{}, nil)
	p.scorer = failingScorer{}

	_, err := p.Run(context.Background(), []domain.RawComment{raw("battery")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment stage")
}

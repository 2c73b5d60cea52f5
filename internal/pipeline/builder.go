package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/signalyze/sentinel/internal/aggregate"
	"github.com/signalyze/sentinel/internal/classify"
	"github.com/signalyze/sentinel/internal/config"
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/inference"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/relevance"
	"github.com/signalyze/sentinel/internal/retry"
	"github.com/signalyze/sentinel/internal/sentiment"
	"github.com/signalyze/sentinel/internal/storage"
	"github.com/signalyze/sentinel/internal/telemetry"
)

// ErrEmptyRuleTable indicates the configured rule table declares no
// keywords at all. Running with it would label everything Other, so this
// is a startup error.
var ErrEmptyRuleTable = errors.New("classification rule table is empty")

// FromConfig assembles a pipeline from configuration. repo may be nil to
// skip persistence. The inference client is only constructed when a remote
// strategy is selected.
func FromConfig(cfg *config.Config, repo *storage.RunRepository, provider *telemetry.Provider, log logger.Logger) (*Pipeline, error) {
	if provider == nil {
		provider = telemetry.NewProvider()
	}

	var detector relevance.LanguageDetector
	if cfg.Relevance.TargetLanguage != "" {
		detector = relevance.NewLanguageDetector()
	}
	filter, err := relevance.NewFilter(relevance.Config{
		Keywords:       cfg.Relevance.Keywords,
		MatchPolicy:    relevance.MatchPolicy(cfg.Relevance.MatchPolicy),
		TargetLanguage: cfg.Relevance.TargetLanguage,
	}, detector, log)
	if err != nil {
		return nil, fmt.Errorf("build relevance filter: %w", err)
	}

	var client *inference.Client
	if cfg.Sentiment.Strategy == config.StrategyRemote || cfg.Classification.Strategy == config.StrategyZeroShot {
		client, err = inference.NewClient(inference.Config{
			BaseURL:           cfg.Inference.BaseURL,
			Token:             cfg.Inference.Token,
			SentimentModel:    cfg.Inference.SentimentModel,
			ZeroShotModel:     cfg.Inference.ZeroShotModel,
			BatchSize:         cfg.Inference.BatchSize,
			Timeout:           cfg.Inference.Timeout,
			RequestsPerSecond: cfg.Inference.RequestsPerSecond,
			Retry: retry.Config{
				MaxAttempts: cfg.Inference.MaxRetries,
				BaseDelay:   cfg.Inference.BackoffBase,
			},
		}, provider, log)
		if err != nil {
			return nil, fmt.Errorf("build inference client: %w", err)
		}
	}

	scorer, err := buildScorer(cfg, client, log)
	if err != nil {
		return nil, err
	}
	classifier, err := buildClassifier(cfg, client, log)
	if err != nil {
		return nil, err
	}

	aggregator := aggregate.NewAggregator(cfg.Aggregation.TopNThemes, log)
	return New(filter, scorer, classifier, aggregator, repo, provider, log), nil
}

func buildScorer(cfg *config.Config, client *inference.Client, log logger.Logger) (sentiment.Scorer, error) {
	switch cfg.Sentiment.Strategy {
	case config.StrategyLexicon:
		lex := sentiment.DefaultLexicon()
		if cfg.Sentiment.LexiconPath != "" {
			if err := loadYAML(cfg.Sentiment.LexiconPath, &lex); err != nil {
				return nil, fmt.Errorf("load lexicon: %w", err)
			}
		}
		return sentiment.NewLexiconScorer(lex), nil
	case config.StrategyRemote:
		return sentiment.NewRemoteScorer(client, log), nil
	default:
		return nil, fmt.Errorf("unknown sentiment strategy %q", cfg.Sentiment.Strategy)
	}
}

func buildClassifier(cfg *config.Config, client *inference.Client, log logger.Logger) (classify.Classifier, error) {
	switch cfg.Classification.Strategy {
	case config.StrategyRules:
		table := classify.DefaultRuleTable()
		if cfg.Classification.RulesPath != "" {
			table = domain.RuleTable{}
			if err := loadYAML(cfg.Classification.RulesPath, &table); err != nil {
				return nil, fmt.Errorf("load rule table: %w", err)
			}
		}
		if table.Empty() {
			return nil, ErrEmptyRuleTable
		}
		return classify.NewRuleClassifier(table, cfg.Classification.ClassifyNeutral, log), nil
	case config.StrategyZeroShot:
		return classify.NewZeroShotClassifier(client, nil, cfg.Classification.ClassifyNeutral, log), nil
	default:
		return nil, fmt.Errorf("unknown topic strategy %q", cfg.Classification.Strategy)
	}
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

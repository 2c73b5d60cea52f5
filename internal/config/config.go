// Package config provides the service configuration: a YAML file with
// .env and environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/signalyze/sentinel/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName    = "sentinel"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8080

	defaultMatchPolicy = "substring"
	defaultTopNThemes  = 5

	defaultSentimentStrategy = StrategyLexicon
	defaultTopicStrategy     = StrategyRules

	defaultBatchSize   = 16
	maxBatchSize       = 64
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	defaultTimeout     = 60 * time.Second

	defaultStorePath = "sentinel.db"
)

// Strategy names for the sentiment and topic stages.
const (
	StrategyLexicon  = "lexicon"
	StrategyRemote   = "remote"
	StrategyRules    = "rules"
	StrategyZeroShot = "zeroshot"
)

// Config holds all configuration for the sentinel service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Relevance      RelevanceConfig      `yaml:"relevance"`
	Sentiment      SentimentConfig      `yaml:"sentiment"`
	Classification ClassificationConfig `yaml:"classification"`
	Inference      InferenceConfig      `yaml:"inference"`
	Aggregation    AggregationConfig    `yaml:"aggregation"`
	Storage        StorageConfig        `yaml:"storage"`
	Logging        logger.Config        `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"SENTINEL_PORT" yaml:"port"`
}

// RelevanceConfig holds the relevance filter settings. Empty keywords
// disable keyword filtering; an empty target language disables language
// filtering.
type RelevanceConfig struct {
	Keywords       []string `env:"RELEVANT_KEYWORDS" yaml:"keywords"`
	MatchPolicy    string   `yaml:"match_policy"`
	TargetLanguage string   `env:"TARGET_LANGUAGE"   yaml:"target_language"`
}

// SentimentConfig selects and tunes the sentiment stage.
type SentimentConfig struct {
	Strategy string `env:"SENTIMENT_STRATEGY" yaml:"strategy"`
	// LexiconPath optionally replaces the built-in marker lexicon with a
	// YAML file of positive/negative word lists.
	LexiconPath string `yaml:"lexicon_path"`
}

// ClassificationConfig selects and tunes the topic stage.
type ClassificationConfig struct {
	Strategy        string `env:"TOPIC_STRATEGY" yaml:"strategy"`
	ClassifyNeutral bool   `yaml:"classify_neutral"`
	// RulesPath optionally replaces the built-in rule table with a YAML
	// file of category groups.
	RulesPath string `yaml:"rules_path"`
}

// InferenceConfig holds remote model invocation settings.
type InferenceConfig struct {
	BaseURL           string        `env:"HF_BASE_URL"   yaml:"base_url"`
	Token             string        `env:"HF_API_TOKEN"  yaml:"token"`
	SentimentModel    string        `yaml:"sentiment_model"`
	ZeroShotModel     string        `yaml:"zeroshot_model"`
	BatchSize         int           `yaml:"batch_size"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	MaxRetries        int           `env:"MAX_RETRIES" yaml:"max_retries"`
	BackoffBase       time.Duration `yaml:"backoff_base"`
}

// AggregationConfig holds summary report settings.
type AggregationConfig struct {
	TopNThemes int `yaml:"top_n_themes"`
}

// StorageConfig holds the result database settings.
type StorageConfig struct {
	Path string `env:"SENTINEL_DB" yaml:"path"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	cfg, err := loadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Sentiment.Strategy {
	case StrategyLexicon, StrategyRemote:
	default:
		return fmt.Errorf("invalid sentiment strategy %q", c.Sentiment.Strategy)
	}
	switch c.Classification.Strategy {
	case StrategyRules, StrategyZeroShot:
	default:
		return fmt.Errorf("invalid topic strategy %q", c.Classification.Strategy)
	}
	switch c.Relevance.MatchPolicy {
	case "substring", "word_boundary":
	default:
		return fmt.Errorf("invalid match policy %q", c.Relevance.MatchPolicy)
	}

	if c.needsInference() && c.Inference.Token == "" {
		return fmt.Errorf("remote strategy requires an API token (HF_API_TOKEN)")
	}
	if c.Inference.BatchSize < 1 || c.Inference.BatchSize > maxBatchSize {
		return fmt.Errorf("batch_size must be in [1, %d], got %d", maxBatchSize, c.Inference.BatchSize)
	}
	if c.Inference.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.Inference.MaxRetries)
	}
	if c.Aggregation.TopNThemes < 1 {
		return fmt.Errorf("top_n_themes must be at least 1, got %d", c.Aggregation.TopNThemes)
	}
	return nil
}

func (c *Config) needsInference() bool {
	return c.Sentiment.Strategy == StrategyRemote || c.Classification.Strategy == StrategyZeroShot
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultServiceVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}

	if cfg.Relevance.MatchPolicy == "" {
		cfg.Relevance.MatchPolicy = defaultMatchPolicy
	}

	if cfg.Sentiment.Strategy == "" {
		cfg.Sentiment.Strategy = defaultSentimentStrategy
	}
	if cfg.Classification.Strategy == "" {
		cfg.Classification.Strategy = defaultTopicStrategy
	}

	if cfg.Inference.BatchSize == 0 {
		cfg.Inference.BatchSize = defaultBatchSize
	}
	if cfg.Inference.Timeout == 0 {
		cfg.Inference.Timeout = defaultTimeout
	}
	if cfg.Inference.MaxRetries == 0 {
		cfg.Inference.MaxRetries = defaultMaxRetries
	}
	if cfg.Inference.BackoffBase == 0 {
		cfg.Inference.BackoffBase = defaultBackoffBase
	}

	if cfg.Aggregation.TopNThemes == 0 {
		cfg.Aggregation.TopNThemes = defaultTopNThemes
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStorePath
	}

	cfg.Logging.SetDefaults()
}

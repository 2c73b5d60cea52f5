// Package inference provides the HTTP client for hosted model inference
// (sentiment and zero-shot topic classification), with chunked batching,
// rate limiting, and retrying of transient failures.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/retry"
)

var (
	// ErrMissingToken indicates no API token was configured. This is a
	// startup configuration error: the pipeline must not run without it.
	ErrMissingToken = errors.New("inference API token missing")
	// ErrUnavailable indicates the inference service could not be reached
	// or kept failing transiently until retries ran out.
	ErrUnavailable = errors.New("inference service unavailable")
)

// Defaults for the hosted inference API.
const (
	DefaultBaseURL        = "https://api-inference.huggingface.co/models/"
	DefaultSentimentModel = "cardiffnlp/twitter-roberta-base-sentiment"
	DefaultZeroShotModel  = "facebook/bart-large-mnli"

	defaultBatchSize = 16
	maxBatchSize     = 64
	defaultTimeout   = 60 * time.Second
)

// Config configures the inference client.
type Config struct {
	BaseURL        string
	Token          string
	SentimentModel string
	ZeroShotModel  string
	// BatchSize is the chunk size for batched calls, clamped to 1..64.
	BatchSize int
	// Timeout is the per-attempt HTTP timeout.
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64
	// Retry controls backoff for transient failures (429/502/503/504 and
	// transport errors).
	Retry retry.Config
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.SentimentModel == "" {
		c.SentimentModel = DefaultSentimentModel
	}
	if c.ZeroShotModel == "" {
		c.ZeroShotModel = DefaultZeroShotModel
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.BatchSize > maxBatchSize {
		c.BatchSize = maxBatchSize
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.DefaultConfig()
	}
}

// Distribution is a 3-way probability distribution in the fixed class
// order [negative, neutral, positive].
type Distribution [3]float64

// LabelScore is one ranked (label, score) pair from the model.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Metrics observes inference calls. Implemented by telemetry.Provider;
// nil disables recording.
type Metrics interface {
	RecordInference(outcome string, duration time.Duration)
	RecordInferenceRetry()
}

// Call outcomes reported to Metrics.
const (
	OutcomeOK        = "ok"
	OutcomeTransient = "transient"
	OutcomeTerminal  = "terminal"
)

// Client calls the hosted inference API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    Metrics
	logger     logger.Logger
}

// NewClient creates a Client. A missing token is rejected here so the
// failure surfaces at startup, not mid-run.
func NewClient(cfg Config, metrics Metrics, log logger.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	cfg.setDefaults()

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
		logger:     log,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// BatchSize returns the configured chunk size.
func (c *Client) BatchSize() int {
	return c.cfg.BatchSize
}

// SentimentBatch scores texts with the sentiment model, returning one
// probability distribution per text in input order. Chunking never
// reorders results relative to the input sequence.
func (c *Client) SentimentBatch(ctx context.Context, texts []string) ([]Distribution, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]Distribution, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))
		for _, text := range texts[start:end] {
			dist, err := c.sentimentOne(ctx, text)
			if err != nil {
				return nil, err
			}
			out = append(out, dist)
		}
		c.logger.Debug("sentiment batch scored",
			logger.Int("from", start),
			logger.Int("to", end))
	}
	return out, nil
}

func (c *Client) sentimentOne(ctx context.Context, text string) (Distribution, error) {
	payload := map[string]any{"inputs": text}

	var ranked []LabelScore
	if err := c.post(ctx, c.cfg.SentimentModel, payload, &ranked); err != nil {
		return Distribution{}, err
	}

	var dist Distribution
	for _, ls := range ranked {
		if idx, ok := classIndex(ls.Label); ok {
			dist[idx] = ls.Score
		}
	}
	return dist, nil
}

// ZeroShot classifies one text against the candidate labels, returning
// the best label with its score.
func (c *Client) ZeroShot(ctx context.Context, text string, candidates []string) (LabelScore, error) {
	payload := map[string]any{
		"inputs":     text,
		"parameters": map[string]any{"candidate_labels": candidates},
	}

	var resp struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := c.post(ctx, c.cfg.ZeroShotModel, payload, &resp); err != nil {
		return LabelScore{}, err
	}
	if len(resp.Labels) == 0 || len(resp.Scores) == 0 {
		return LabelScore{}, fmt.Errorf("zero-shot response carried no labels")
	}
	// Labels are ranked descending by score; the first entry wins.
	return LabelScore{Label: resp.Labels[0], Score: resp.Scores[0]}, nil
}

// ZeroShotBatch classifies texts in order, one best label each.
func (c *Client) ZeroShotBatch(ctx context.Context, texts, candidates []string) ([]LabelScore, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]LabelScore, 0, len(texts))
	for _, text := range texts {
		ls, err := c.ZeroShot(ctx, text, candidates)
		if err != nil {
			return nil, err
		}
		out = append(out, ls)
	}
	return out, nil
}

// transientStatus reports whether an HTTP status is worth retrying.
func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// post issues one model call under the retry policy, decoding the JSON
// response into out. Transport failures and transient statuses are
// retried with exponential backoff; any other failure, or retry
// exhaustion, is terminal and must stop the pipeline.
func (c *Client) post(ctx context.Context, model string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	url := c.cfg.BaseURL + model

	started := time.Now()
	attempts := 0
	attempt := func() error {
		attempts++
		if attempts > 1 && c.metrics != nil {
			c.metrics.RecordInferenceRetry()
		}
		if c.limiter != nil {
			if waitErr := c.limiter.Wait(ctx); waitErr != nil {
				return fmt.Errorf("rate limiter: %w", waitErr)
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if reqErr != nil {
			return fmt.Errorf("create request: %w", reqErr)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return retry.Transient(fmt.Errorf("http request: %w", doErr))
		}
		defer resp.Body.Close()

		if transientStatus(resp.StatusCode) {
			return retry.Transient(fmt.Errorf("inference API status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("inference API status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		}

		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return retry.Transient(fmt.Errorf("read response: %w", readErr))
		}
		return decodeModelResponse(raw, out)
	}

	if err := retry.Do(ctx, c.cfg.Retry, attempt); err != nil {
		if errors.Is(err, retry.ErrMaxAttemptsExceeded) {
			c.recordCall(OutcomeTransient, started)
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		c.recordCall(OutcomeTerminal, started)
		return err
	}
	c.recordCall(OutcomeOK, started)
	return nil
}

func (c *Client) recordCall(outcome string, started time.Time) {
	if c.metrics != nil {
		c.metrics.RecordInference(outcome, time.Since(started))
	}
}

// decodeModelResponse tolerates the API's habit of nesting single-input
// results one list deeper than documented.
func decodeModelResponse(raw []byte, out any) error {
	if rankedPtr, ok := out.(*[]LabelScore); ok {
		var nested [][]LabelScore
		if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
			*rankedPtr = nested[0]
			return nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classIndex maps the model's label naming (LABEL_0/1/2 or plain names)
// onto the fixed class order.
func classIndex(label string) (int, bool) {
	switch strings.ToLower(label) {
	case "label_0", "negative":
		return 0, true
	case "label_1", "neutral":
		return 1, true
	case "label_2", "positive":
		return 2, true
	}
	return 0, false
}

// Package telemetry exports Prometheus metrics for the analysis pipeline.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all sentinel Prometheus metrics.
type Metrics struct {
	// Pipeline metrics
	RunsTotal       prometheus.Counter
	RunDuration     prometheus.Histogram
	CommentsIn      *prometheus.CounterVec
	CommentsOut     *prometheus.CounterVec
	CommentsDropped *prometheus.CounterVec

	// Sentiment distribution
	SentimentTotal *prometheus.CounterVec

	// Remote inference metrics
	InferenceRequests *prometheus.CounterVec
	InferenceRetries  prometheus.Counter
	InferenceDuration prometheus.Histogram
}

// Provider wraps the metrics and their registry.
type Provider struct {
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes a provider with its own registry so multiple
// instances can coexist in tests.
func NewProvider() *Provider {
	registry := prometheus.NewRegistry()
	return &Provider{
		Metrics:  initMetrics(promauto.With(registry)),
		registry: registry,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func initMetrics(factory promauto.Factory) *Metrics {
	m := &Metrics{}

	m.RunsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_runs_total",
		Help: "Total pipeline runs",
	})

	m.RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_run_duration_seconds",
		Help:    "End-to-end duration of a pipeline run",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	m.CommentsIn = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_comments_in_total",
		Help: "Comments entering each pipeline stage",
	}, []string{"stage"})

	m.CommentsOut = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_comments_out_total",
		Help: "Comments leaving each pipeline stage",
	}, []string{"stage"})

	m.CommentsDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_comments_dropped_total",
		Help: "Comments dropped by each pipeline stage",
	}, []string{"stage"})

	m.SentimentTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_sentiment_total",
		Help: "Comments scored by sentiment label",
	}, []string{"label"})

	m.InferenceRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_inference_requests_total",
		Help: "Remote inference requests by outcome (ok, transient, terminal)",
	}, []string{"outcome"})

	m.InferenceRetries = factory.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_inference_retries_total",
		Help: "Remote inference attempts beyond the first",
	})

	m.InferenceDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_inference_duration_seconds",
		Help:    "Duration of a remote inference call including retries",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	return m
}

// RecordStage records the in/out/dropped counts for one pipeline stage.
func (p *Provider) RecordStage(stage string, in, out, dropped int) {
	p.Metrics.CommentsIn.WithLabelValues(stage).Add(float64(in))
	p.Metrics.CommentsOut.WithLabelValues(stage).Add(float64(out))
	p.Metrics.CommentsDropped.WithLabelValues(stage).Add(float64(dropped))
}

// RecordRun records a completed pipeline run.
func (p *Provider) RecordRun(duration time.Duration) {
	p.Metrics.RunsTotal.Inc()
	p.Metrics.RunDuration.Observe(duration.Seconds())
}

// RecordSentiment increments the sentiment label counter.
func (p *Provider) RecordSentiment(label string) {
	p.Metrics.SentimentTotal.WithLabelValues(label).Inc()
}

// RecordInference records one inference call with its outcome.
func (p *Provider) RecordInference(outcome string, duration time.Duration) {
	p.Metrics.InferenceRequests.WithLabelValues(outcome).Inc()
	p.Metrics.InferenceDuration.Observe(duration.Seconds())
}

// RecordInferenceRetry counts one inference attempt beyond the first.
func (p *Provider) RecordInferenceRetry() {
	p.Metrics.InferenceRetries.Inc()
}

package telemetry

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStage(t *testing.T) {
	p := NewProvider()

	p.RecordStage("dedup", 10, 8, 2)
	p.RecordStage("dedup", 5, 5, 0)

	assert.Equal(t, 15.0, testutil.ToFloat64(p.Metrics.CommentsIn.WithLabelValues("dedup")))
	assert.Equal(t, 13.0, testutil.ToFloat64(p.Metrics.CommentsOut.WithLabelValues("dedup")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.Metrics.CommentsDropped.WithLabelValues("dedup")))
}

func TestRecordRunAndSentiment(t *testing.T) {
	p := NewProvider()

	p.RecordRun(2 * time.Second)
	p.RecordSentiment("positive")
	p.RecordSentiment("positive")
	p.RecordSentiment("negative")

	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.RunsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.Metrics.SentimentTotal.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.SentimentTotal.WithLabelValues("negative")))
}

func TestRecordInference(t *testing.T) {
	p := NewProvider()

	p.RecordInference("ok", 100*time.Millisecond)
	p.RecordInference("transient", time.Second)
	p.RecordInferenceRetry()
	p.RecordInferenceRetry()

	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.InferenceRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.InferenceRequests.WithLabelValues("transient")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.Metrics.InferenceRetries))
}

func TestIndependentProviders(t *testing.T) {
	a := NewProvider()
	b := NewProvider()

	a.RecordSentiment("neutral")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.SentimentTotal.WithLabelValues("neutral")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Metrics.SentimentTotal.WithLabelValues("neutral")))
}

func TestHandlerServesMetrics(t *testing.T) {
	p := NewProvider()
	p.RecordRun(time.Second)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentinel_runs_total 1")
}

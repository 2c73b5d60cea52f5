package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalyze/sentinel/internal/classify"
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/sentiment"
	"github.com/signalyze/sentinel/internal/storage"
	"github.com/signalyze/sentinel/internal/telemetry"
)

func newTestRouter(t *testing.T, repo *storage.RunRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	scorer := sentiment.NewLexiconScorer(sentiment.DefaultLexicon())
	classifier := classify.NewRuleClassifier(classify.DefaultRuleTable(), false, log)
	handler := NewHandler(scorer, classifier, classifier.Rules(), repo, log)

	router := gin.New()
	SetupRoutes(router, handler, ServerConfig{Name: "sentinel", Version: "test"}, telemetry.NewProvider())
	return router
}

func newSeededRepo(t *testing.T) *storage.RunRepository {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewRunRepository(db)
	run := &storage.Run{
		ID:              "run-1",
		StartedAt:       time.Now().UTC(),
		FinishedAt:      time.Now().UTC(),
		InputCount:      1,
		NormalizedCount: 1,
		DedupedCount:    1,
		RelevantCount:   1,
		AnnotatedCount:  1,
	}
	comments := []domain.AnnotatedComment{{
		Comment:   domain.Comment{Source: "reddit", Content: "battery is great"},
		Sentiment: domain.SentimentPositive, SentimentScore: 1,
		Category1: "Product", Category2: "Battery & Range", Category3: "battery",
	}}
	require.NoError(t, repo.SaveRun(context.Background(), run, comments))
	return repo
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/analyze",
		AnalyzeRequest{Content: "Great fast charging, love it! https://example.com/post"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Great fast charging, love it!", resp.Content)
	assert.Equal(t, domain.SentimentPositive, resp.Sentiment)
	assert.Equal(t, 2.0, resp.SentimentScore)
	assert.Equal(t, "Product", resp.Category1)
	assert.Equal(t, "Battery & Range", resp.Category2)
}

func TestAnalyze_MissingContent(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/analyze", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeBatch_OrderPreserved(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/analyze/batch", BatchAnalyzeRequest{
		Comments: []string{
			"Battery drains too quickly, very poor",
			"Great fast charging, love it!",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchAnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, domain.SentimentNegative, resp.Results[0].Sentiment)
	assert.Equal(t, domain.SentimentPositive, resp.Results[1].Sentiment)
}

func TestAnalyzeBatch_EmptyRejected(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/analyze/batch",
		BatchAnalyzeRequest{Comments: []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRules(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RulesListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Rules)
	assert.Equal(t, resp.Total, len(resp.Rules))
	assert.Equal(t, "battery", resp.Rules[0].Keyword)
	assert.Equal(t, "Product", resp.Rules[0].Category1)
}

func TestRuns_PersistenceDisabled(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetRun(t *testing.T) {
	router := newTestRouter(t, newSeededRepo(t))

	rec := doJSON(router, http.MethodGet, "/api/v1/runs/run-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RunDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.Run.ID)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "battery is great", resp.Comments[0].Content)
}

func TestGetRun_NotFound(t *testing.T) {
	router := newTestRouter(t, newSeededRepo(t))

	rec := doJSON(router, http.MethodGet, "/api/v1/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStats(t *testing.T) {
	router := newTestRouter(t, newSeededRepo(t))

	rec := doJSON(router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp storage.AnalysisStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalRuns)
	assert.Equal(t, 1, resp.TotalComments)
	assert.Equal(t, 1, resp.Sentiments["positive"])
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Package api exposes the analysis pipeline over HTTP: ad-hoc comment
// analysis, the rule table, stored runs, and aggregate statistics.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signalyze/sentinel/internal/classify"
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/normalize"
	"github.com/signalyze/sentinel/internal/sentiment"
	"github.com/signalyze/sentinel/internal/storage"
)

// Handler handles HTTP requests for the sentinel API.
type Handler struct {
	scorer     sentiment.Scorer
	classifier classify.Classifier
	rules      []domain.ClassificationRule
	repo       *storage.RunRepository
	logger     logger.Logger
}

// NewHandler creates a new API handler. rules may be empty when the
// zero-shot strategy is active; repo may be nil when persistence is
// disabled.
func NewHandler(
	scorer sentiment.Scorer,
	classifier classify.Classifier,
	rules []domain.ClassificationRule,
	repo *storage.RunRepository,
	log logger.Logger,
) *Handler {
	return &Handler{
		scorer:     scorer,
		classifier: classifier,
		rules:      rules,
		repo:       repo,
		logger:     log,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.analyze(c, []string{req.Content})
	if err != nil {
		h.logger.Error("analysis failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results[0])
}

// AnalyzeBatch handles POST /api/v1/analyze/batch.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.analyze(c, req.Comments)
	if err != nil {
		h.logger.Error("batch analysis failed",
			logger.Int("batch", len(req.Comments)),
			logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BatchAnalyzeResponse{Results: results, Total: len(results)})
}

// analyze cleans and annotates the given texts in order.
func (h *Handler) analyze(c *gin.Context, texts []string) ([]AnalyzeResponse, error) {
	cleaned := make([]string, len(texts))
	for i, t := range texts {
		cleaned[i] = normalize.Clean(t)
	}

	scores, err := h.scorer.Score(c.Request.Context(), cleaned)
	if err != nil {
		return nil, err
	}

	results := make([]AnalyzeResponse, len(cleaned))
	for i, text := range cleaned {
		assignment, err := h.classifier.Assign(c.Request.Context(), scores[i].Label, text)
		if err != nil {
			return nil, err
		}
		results[i] = AnalyzeResponse{
			Content:        text,
			Sentiment:      scores[i].Label,
			SentimentScore: scores[i].Score,
			Category1:      assignment.Category1,
			Category2:      assignment.Category2,
			Category3:      assignment.Category3,
			Confidence:     assignment.Confidence,
		}
	}
	return results, nil
}

// ListRules handles GET /api/v1/rules.
func (h *Handler) ListRules(c *gin.Context) {
	c.JSON(http.StatusOK, RulesListResponse{Rules: h.rules, Total: len(h.rules)})
}

// ListRuns handles GET /api/v1/runs.
func (h *Handler) ListRuns(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled"})
		return
	}

	runs, err := h.repo.ListRuns(c.Request.Context(), listRunsLimit)
	if err != nil {
		h.logger.Error("failed to list runs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, RunsListResponse{Runs: runs, Total: len(runs)})
}

// GetRun handles GET /api/v1/runs/:id.
func (h *Handler) GetRun(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled"})
		return
	}

	id := c.Param("id")
	run, err := h.repo.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to get run", logger.String("run_id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	comments, err := h.repo.GetComments(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get run comments", logger.String("run_id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RunDetailResponse{Run: run, Comments: comments})
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled"})
		return
	}

	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

package api

import (
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/storage"
)

const listRunsLimit = 50

// AnalyzeRequest is a single ad-hoc analysis request.
type AnalyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// BatchAnalyzeRequest analyzes up to 100 comments in one call.
type BatchAnalyzeRequest struct {
	Comments []string `json:"comments" binding:"required,min=1,max=100"`
}

// AnalyzeResponse is the annotation produced for one comment. Confidence
// is only set by the zero-shot strategy.
type AnalyzeResponse struct {
	Content        string           `json:"content"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	SentimentScore float64          `json:"sentiment_score"`
	Category1      string           `json:"category1"`
	Category2      string           `json:"category2"`
	Category3      string           `json:"category3"`
	Confidence     float64          `json:"confidence,omitempty"`
}

// BatchAnalyzeResponse wraps batch results in input order.
type BatchAnalyzeResponse struct {
	Results []AnalyzeResponse `json:"results"`
	Total   int               `json:"total"`
}

// RulesListResponse lists the flattened rule table in scan order.
type RulesListResponse struct {
	Rules []domain.ClassificationRule `json:"rules"`
	Total int                         `json:"total"`
}

// RunsListResponse lists stored runs, newest first.
type RunsListResponse struct {
	Runs  []*storage.Run `json:"runs"`
	Total int            `json:"total"`
}

// RunDetailResponse is one run with its annotated comments.
type RunDetailResponse struct {
	Run      *storage.Run              `json:"run"`
	Comments []domain.AnnotatedComment `json:"comments"`
}

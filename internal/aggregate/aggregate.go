// Package aggregate reduces a classified comment set into summary
// statistics: label counts, category counts, and top keyword themes per
// sentiment bucket.
package aggregate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

// DefaultTopN is the default number of themes reported per bucket.
const DefaultTopN = 5

const minTokenLength = 3

var tokenPattern = regexp.MustCompile(`\w+`)

// defaultStopwords are excluded from theme ranking.
var defaultStopwords = []string{
	"the", "and", "a", "to", "is", "it", "of", "in", "for", "you",
	"on", "that", "this", "with", "was", "are", "but", "not", "have",
}

// Theme is one ranked content token with its frequency.
type Theme struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Summary is the aggregate view over a finished comment set.
type Summary struct {
	Total          int                      `json:"total"`
	BySentiment    map[domain.Sentiment]int `json:"by_sentiment"`
	ByCategory     map[string]int           `json:"by_category"`
	PositiveThemes []Theme                  `json:"positive_themes"`
	NegativeThemes []Theme                  `json:"negative_themes"`
}

// Aggregator computes summaries. It is pure and read-only: no external
// calls, no mutation of its input.
type Aggregator struct {
	topN      int
	stopwords map[string]struct{}
	logger    logger.Logger
}

// NewAggregator creates an Aggregator reporting topN themes per bucket.
// topN <= 0 selects the default.
func NewAggregator(topN int, log logger.Logger) *Aggregator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	stop := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		stop[w] = struct{}{}
	}
	return &Aggregator{topN: topN, stopwords: stop, logger: log}
}

// Summarize reduces the comment set.
func (a *Aggregator) Summarize(comments []domain.AnnotatedComment) Summary {
	s := Summary{
		Total:       len(comments),
		BySentiment: make(map[domain.Sentiment]int),
		ByCategory:  make(map[string]int),
	}

	var positive, negative []string
	for _, c := range comments {
		s.BySentiment[c.Sentiment]++
		if c.Category1 != "" {
			s.ByCategory[c.Category1]++
		}
		switch c.Sentiment {
		case domain.SentimentPositive:
			positive = append(positive, c.Content)
		case domain.SentimentNegative:
			negative = append(negative, c.Content)
		}
	}

	s.PositiveThemes = a.topThemes(positive)
	s.NegativeThemes = a.topThemes(negative)

	a.logger.Info("aggregation complete",
		logger.Int("total", s.Total),
		logger.Int("positive", s.BySentiment[domain.SentimentPositive]),
		logger.Int("neutral", s.BySentiment[domain.SentimentNeutral]),
		logger.Int("negative", s.BySentiment[domain.SentimentNegative]))
	return s
}

// topThemes ranks tokens by descending frequency. Stopwords and tokens
// shorter than three characters are excluded; ties keep the order in
// which tokens were first encountered, so the ranking is deterministic.
func (a *Aggregator) topThemes(texts []string) []Theme {
	counts := make(map[string]int)
	var order []string

	for _, text := range texts {
		for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
			if len(token) < minTokenLength {
				continue
			}
			if _, stop := a.stopwords[token]; stop {
				continue
			}
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	themes := make([]Theme, 0, len(order))
	for _, token := range order {
		themes = append(themes, Theme{Token: token, Count: counts[token]})
	}
	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Count > themes[j].Count
	})

	if len(themes) > a.topN {
		themes = themes[:a.topN]
	}
	return themes
}

// RenderMarkdown formats a Summary as a short markdown report.
func RenderMarkdown(title string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Total comments analyzed: %d\n\n", s.Total)
	fmt.Fprintf(&b, "Positive: %d, Neutral: %d, Negative: %d\n",
		s.BySentiment[domain.SentimentPositive],
		s.BySentiment[domain.SentimentNeutral],
		s.BySentiment[domain.SentimentNegative])

	if len(s.ByCategory) > 0 {
		b.WriteString("\n## Categories\n")
		cats := make([]string, 0, len(s.ByCategory))
		for cat := range s.ByCategory {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Fprintf(&b, "- %s (%d)\n", cat, s.ByCategory[cat])
		}
	}

	b.WriteString("\n## Top positive themes\n")
	for _, theme := range s.PositiveThemes {
		fmt.Fprintf(&b, "- %s (%d)\n", theme.Token, theme.Count)
	}
	b.WriteString("\n## Top negative themes\n")
	for _, theme := range s.NegativeThemes {
		fmt.Fprintf(&b, "- %s (%d)\n", theme.Token, theme.Count)
	}
	return b.String()
}

package aggregate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

func annotated(label domain.Sentiment, content, category1 string) domain.AnnotatedComment {
	return domain.AnnotatedComment{
		Comment:   domain.Comment{Content: content},
		Sentiment: label,
		Category1: category1,
	}
}

func TestSummarize_Counts(t *testing.T) {
	a := NewAggregator(5, logger.NewNop())

	s := a.Summarize([]domain.AnnotatedComment{
		annotated(domain.SentimentPositive, "battery great", "Product"),
		annotated(domain.SentimentPositive, "love the ride", "User Experience"),
		annotated(domain.SentimentNegative, "battery poor", "Product"),
		annotated(domain.SentimentNeutral, "it exists", ""),
	})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.BySentiment[domain.SentimentPositive])
	assert.Equal(t, 1, s.BySentiment[domain.SentimentNegative])
	assert.Equal(t, 1, s.BySentiment[domain.SentimentNeutral])
	assert.Equal(t, 2, s.ByCategory["Product"])
	assert.Equal(t, 1, s.ByCategory["User Experience"])
}

func TestSummarize_ThemesExcludeStopwordsAndShortTokens(t *testing.T) {
	a := NewAggregator(5, logger.NewNop())

	s := a.Summarize([]domain.AnnotatedComment{
		annotated(domain.SentimentPositive, "the battery is ok and it is great", ""),
	})

	for _, theme := range s.PositiveThemes {
		assert.NotContains(t, []string{"the", "and", "is", "it", "ok"}, theme.Token)
		assert.GreaterOrEqual(t, len(theme.Token), 3)
	}
}

func TestSummarize_ThemeRankingStable(t *testing.T) {
	a := NewAggregator(3, logger.NewNop())

	s := a.Summarize([]domain.AnnotatedComment{
		annotated(domain.SentimentNegative, "battery battery drains", ""),
		annotated(domain.SentimentNegative, "service drains patience", ""),
		annotated(domain.SentimentNegative, "service battery", ""),
	})

	// battery: 3, service: 2, drains: 2, patience: 1. Ties ("service" vs
	// "drains") keep first-encountered order: "drains" appears first.
	require.Len(t, s.NegativeThemes, 3)
	assert.Equal(t, Theme{Token: "battery", Count: 3}, s.NegativeThemes[0])
	assert.Equal(t, Theme{Token: "drains", Count: 2}, s.NegativeThemes[1])
	assert.Equal(t, Theme{Token: "service", Count: 2}, s.NegativeThemes[2])
}

func TestSummarize_TopNLimit(t *testing.T) {
	a := NewAggregator(2, logger.NewNop())

	s := a.Summarize([]domain.AnnotatedComment{
		annotated(domain.SentimentPositive, "alpha bravo charlie delta echo", ""),
	})

	assert.Len(t, s.PositiveThemes, 2)
}

func TestSummarize_Deterministic(t *testing.T) {
	a := NewAggregator(5, logger.NewNop())
	in := []domain.AnnotatedComment{
		annotated(domain.SentimentPositive, "battery range charging", "Product"),
		annotated(domain.SentimentNegative, "price expensive battery", "Value & Price"),
	}

	first := a.Summarize(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.PositiveThemes, a.Summarize(in).PositiveThemes)
		assert.Equal(t, first.NegativeThemes, a.Summarize(in).NegativeThemes)
	}
}

func TestRenderMarkdown(t *testing.T) {
	a := NewAggregator(5, logger.NewNop())
	s := a.Summarize([]domain.AnnotatedComment{
		annotated(domain.SentimentPositive, "battery great", "Product"),
		annotated(domain.SentimentNegative, "drains fast", "Product"),
	})

	out := RenderMarkdown("Feedback summary", s)

	assert.True(t, strings.HasPrefix(out, "# Feedback summary"))
	assert.Contains(t, out, "Total comments analyzed: 2")
	assert.Contains(t, out, "Positive: 1, Neutral: 0, Negative: 1")
	assert.Contains(t, out, "- Product (2)")
	assert.Contains(t, out, "## Top positive themes")
	assert.Contains(t, out, "- battery (1)")
}

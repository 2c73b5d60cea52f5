package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

type stubDetector struct {
	code string
	ok   bool
}

func (s stubDetector) Detect(string) (string, bool) {
	return s.code, s.ok
}

func TestKeywordMatcher_Substring(t *testing.T) {
	m, err := NewKeywordMatcher([]string{"ather", "rizta"}, MatchSubstring)
	require.NoError(t, err)

	assert.True(t, m.Matches("The Ather Rizta is great"))
	assert.True(t, m.Matches("RIZTA!"))
	// Substring policy accepts matches inside longer words.
	assert.True(t, m.Matches("terrible weather today"))
	assert.False(t, m.Matches("some other scooter"))
}

func TestKeywordMatcher_WordBoundary(t *testing.T) {
	m, err := NewKeywordMatcher([]string{"ather"}, MatchWordBoundary)
	require.NoError(t, err)

	assert.True(t, m.Matches("my Ather arrived"))
	assert.False(t, m.Matches("terrible weather today"))
}

func TestKeywordMatcher_MultiWordKeyword(t *testing.T) {
	m, err := NewKeywordMatcher([]string{"ather battery"}, MatchSubstring)
	require.NoError(t, err)

	assert.True(t, m.Matches("the Ather battery lasts long"))
	assert.False(t, m.Matches("the battery of the ather"))
}

func TestKeywordMatcher_UnknownPolicy(t *testing.T) {
	_, err := NewKeywordMatcher([]string{"x"}, MatchPolicy("fuzzy"))
	assert.Error(t, err)
}

func TestFilter_EmptyConfigPassesEverything(t *testing.T) {
	f, err := NewFilter(Config{}, nil, logger.NewNop())
	require.NoError(t, err)

	in := []domain.Comment{{Content: "anything"}, {Content: "at all"}}
	out, stats := f.Apply(in)

	assert.Equal(t, in, out)
	assert.Zero(t, stats.DroppedKeyword)
	assert.Zero(t, stats.DroppedLanguage)
}

func TestFilter_KeywordPredicate(t *testing.T) {
	f, err := NewFilter(Config{Keywords: []string{"rizta"}}, nil, logger.NewNop())
	require.NoError(t, err)

	out, stats := f.Apply([]domain.Comment{
		{Content: "love my Rizta"},
		{Content: "off topic entirely"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "love my Rizta", out[0].Content)
	assert.Equal(t, 1, stats.DroppedKeyword)
}

func TestFilter_LanguageFailsClosed(t *testing.T) {
	// Detection failure must drop the comment, never pass it through.
	f, err := NewFilter(Config{TargetLanguage: "en"}, stubDetector{ok: false}, logger.NewNop())
	require.NoError(t, err)

	out, stats := f.Apply([]domain.Comment{{Content: "??"}})

	assert.Empty(t, out)
	assert.Equal(t, 1, stats.DroppedLanguage)
}

func TestFilter_LanguageMismatchDropped(t *testing.T) {
	f, err := NewFilter(Config{TargetLanguage: "en"}, stubDetector{code: "de", ok: true}, logger.NewNop())
	require.NoError(t, err)

	out, _ := f.Apply([]domain.Comment{{Content: "das ist gut"}})
	assert.Empty(t, out)
}

func TestFilter_PredicatesCompose(t *testing.T) {
	f, err := NewFilter(Config{
		Keywords:       []string{"battery"},
		TargetLanguage: "en",
	}, stubDetector{code: "en", ok: true}, logger.NewNop())
	require.NoError(t, err)

	out, stats := f.Apply([]domain.Comment{
		{Content: "battery life is fine"},
		{Content: "no relevant mention"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, 1, stats.DroppedKeyword)
	assert.Equal(t, 1, stats.Out)
}

func TestFilter_NilDetectorWithTargetFailsClosed(t *testing.T) {
	f, err := NewFilter(Config{TargetLanguage: "en"}, nil, logger.NewNop())
	require.NoError(t, err)

	out, _ := f.Apply([]domain.Comment{{Content: "hello there"}})
	assert.Empty(t, out)
}

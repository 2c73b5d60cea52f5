package relevance

import (
	"strings"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

// Config configures the relevance filter. An empty keyword set disables the
// keyword predicate; an empty target language disables the language
// predicate. With both disabled the filter passes everything.
type Config struct {
	Keywords       []string    `yaml:"keywords"`
	MatchPolicy    MatchPolicy `yaml:"match_policy"`
	TargetLanguage string      `yaml:"target_language"`
}

// Stats counts records in and out of a filtering pass, split by the
// predicate that dropped them.
type Stats struct {
	In              int
	Out             int
	DroppedKeyword  int
	DroppedLanguage int
}

// Filter composes the keyword and language predicates with AND.
type Filter struct {
	keywords *KeywordMatcher // nil when the keyword stage is disabled
	detector LanguageDetector
	target   string // empty when the language stage is disabled
	logger   logger.Logger
}

// NewFilter builds a Filter from cfg. detector may be nil when no target
// language is configured; passing a nil detector with a target language set
// is a configuration error surfaced on first use (fail closed).
func NewFilter(cfg Config, detector LanguageDetector, log logger.Logger) (*Filter, error) {
	f := &Filter{
		detector: detector,
		target:   strings.ToLower(strings.TrimSpace(cfg.TargetLanguage)),
		logger:   log,
	}

	if len(cfg.Keywords) > 0 {
		m, err := NewKeywordMatcher(cfg.Keywords, cfg.MatchPolicy)
		if err != nil {
			return nil, err
		}
		f.keywords = m
	}

	return f, nil
}

// KeywordRelevant reports whether content passes the keyword predicate.
// A disabled keyword stage passes everything.
func (f *Filter) KeywordRelevant(content string) bool {
	if f.keywords == nil {
		return true
	}
	return f.keywords.Matches(content)
}

// LanguageRelevant reports whether content passes the language predicate.
// Detection failure fails closed: the comment is treated as not matching
// the target language and is never retried.
func (f *Filter) LanguageRelevant(content string) bool {
	if f.target == "" {
		return true
	}
	if f.detector == nil {
		return false
	}
	code, ok := f.detector.Detect(content)
	if !ok {
		return false
	}
	return code == f.target
}

// Apply filters comments through both predicates, preserving order.
func (f *Filter) Apply(comments []domain.Comment) ([]domain.Comment, Stats) {
	stats := Stats{In: len(comments)}
	out := make([]domain.Comment, 0, len(comments))

	for _, c := range comments {
		if !f.KeywordRelevant(c.Content) {
			stats.DroppedKeyword++
			continue
		}
		if !f.LanguageRelevant(c.Content) {
			stats.DroppedLanguage++
			continue
		}
		out = append(out, c)
	}

	stats.Out = len(out)
	f.logger.Info("relevance filtering complete",
		logger.Int("in", stats.In),
		logger.Int("out", stats.Out),
		logger.Int("dropped_keyword", stats.DroppedKeyword),
		logger.Int("dropped_language", stats.DroppedLanguage))
	return out, stats
}

// Package normalize coerces source records of varying shape into the
// canonical comment schema and cleans their content.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

// FieldAliases maps each canonical field to the accepted source column
// names, in precedence order: when a record carries several alias columns
// the earliest listed non-empty one wins. For engagement this means
// engagement > score (Reddit) > likeCount (YouTube).
var FieldAliases = map[string][]string{
	"source":     {"source"},
	"timestamp":  {"timestamp", "date", "created_utc", "publishedAt"},
	"username":   {"username", "author", "user"},
	"content":    {"content", "text", "body"},
	"url":        {"url", "permalink", "link"},
	"engagement": {"engagement", "score", "likeCount", "likes"},
}

var (
	urlPattern        = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean strips URL tokens from text, collapses whitespace runs to single
// spaces, trims, and NFC-normalizes. Clean is idempotent.
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FromRecord builds a RawComment from a column-name → value mapping,
// resolving source-specific aliases. Missing columns become empty strings.
func FromRecord(rec map[string]string) domain.RawComment {
	pick := func(field string) string {
		for _, name := range FieldAliases[field] {
			if v, ok := rec[name]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	return domain.RawComment{
		Source:     pick("source"),
		Timestamp:  pick("timestamp"),
		Username:   pick("username"),
		Content:    pick("content"),
		URL:        pick("url"),
		Engagement: pick("engagement"),
	}
}

// Stats counts records in and out of a normalization pass so data loss is
// auditable.
type Stats struct {
	In      int
	Out     int
	Dropped int
}

// Normalizer converts raw comments into canonical ones.
type Normalizer struct {
	logger logger.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(log logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize produces exactly one Comment per raw record, or none when the
// cleaned content is empty. A malformed record never fails the batch; its
// unparseable fields take their defaults.
func (n *Normalizer) Normalize(raw []domain.RawComment) ([]domain.Comment, Stats) {
	stats := Stats{In: len(raw)}
	out := make([]domain.Comment, 0, len(raw))

	for _, r := range raw {
		content := Clean(r.Content)
		if content == "" {
			stats.Dropped++
			continue
		}
		out = append(out, domain.Comment{
			Source:     r.Source,
			Timestamp:  r.Timestamp,
			Username:   r.Username,
			Content:    content,
			URL:        r.URL,
			Engagement: parseEngagement(r.Engagement),
		})
	}

	stats.Out = len(out)
	n.logger.Info("normalization complete",
		logger.Int("in", stats.In),
		logger.Int("out", stats.Out),
		logger.Int("dropped", stats.Dropped))
	return out, stats
}

// parseEngagement parses an integer-like engagement value, tolerating
// float formatting. Unparseable values default to zero.
func parseEngagement(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

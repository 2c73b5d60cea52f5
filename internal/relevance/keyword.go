// Package relevance filters comments down to the ones that mention a
// configured entity and, optionally, are written in a target language.
package relevance

import (
	"fmt"
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// MatchPolicy names how keywords are matched against content.
type MatchPolicy string

const (
	// MatchSubstring matches a keyword anywhere in the content, even inside
	// an unrelated longer word. Recall-over-precision: "ather" matching
	// inside "weather" is accepted under this policy.
	MatchSubstring MatchPolicy = "substring"
	// MatchWordBoundary only matches keywords delimited by non-word runes.
	MatchWordBoundary MatchPolicy = "word_boundary"
)

// KeywordMatcher reports whether content mentions any of a fixed keyword
// set, case-insensitively.
type KeywordMatcher struct {
	policy   MatchPolicy
	matcher  *ahocorasick.Matcher
	patterns []*regexp.Regexp
}

// NewKeywordMatcher builds a matcher for the given keywords. Blank
// keywords are ignored; an empty set yields a matcher that matches
// nothing (callers disable the stage instead, see Filter).
func NewKeywordMatcher(keywords []string, policy MatchPolicy) (*KeywordMatcher, error) {
	if policy == "" {
		policy = MatchSubstring
	}

	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}

	m := &KeywordMatcher{policy: policy}
	switch policy {
	case MatchSubstring:
		if len(normalized) > 0 {
			m.matcher = ahocorasick.NewStringMatcher(normalized)
		}
	case MatchWordBoundary:
		m.patterns = make([]*regexp.Regexp, 0, len(normalized))
		for _, kw := range normalized {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("compile keyword pattern %q: %w", kw, err)
			}
			m.patterns = append(m.patterns, re)
		}
	default:
		return nil, fmt.Errorf("unknown match policy %q", policy)
	}

	return m, nil
}

// Matches reports whether content contains any configured keyword.
func (m *KeywordMatcher) Matches(content string) bool {
	content = strings.ToLower(content)

	switch m.policy {
	case MatchWordBoundary:
		for _, re := range m.patterns {
			if re.MatchString(content) {
				return true
			}
		}
		return false
	default:
		if m.matcher == nil {
			return false
		}
		return len(m.matcher.Match([]byte(content))) > 0
	}
}

package classify

import (
	"context"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

// RuleClassifier scans the flattened rule table in its single fixed
// global order and returns the first rule whose keyword appears in the
// lowercased content. The Aho-Corasick automaton finds every matching
// keyword in one pass; first-declared-wins falls out of taking the lowest
// global rule index among the hits.
type RuleClassifier struct {
	rules           []domain.ClassificationRule
	matcher         *ahocorasick.Matcher
	patternToRule   []int
	classifyNeutral bool
	logger          logger.Logger
}

// NewRuleClassifier builds a classifier from the ordered rule table.
// When classifyNeutral is false (the default policy), neutral comments
// keep empty category fields and are never scanned.
func NewRuleClassifier(table domain.RuleTable, classifyNeutral bool, log logger.Logger) *RuleClassifier {
	rules := table.Flatten()

	// Duplicate keywords collapse onto their first (lowest-index) rule,
	// which is the one the ordered scan would have picked anyway.
	patterns := make([]string, 0, len(rules))
	patternToRule := make([]int, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		kw := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		patterns = append(patterns, kw)
		patternToRule = append(patternToRule, i)
	}

	c := &RuleClassifier{
		rules:           rules,
		patternToRule:   patternToRule,
		classifyNeutral: classifyNeutral,
		logger:          log,
	}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(patterns)
	}

	log.Info("rule classifier initialized",
		logger.Int("rules", len(rules)),
		logger.Int("keywords", len(patterns)),
		logger.Bool("classify_neutral", classifyNeutral))
	return c
}

// Name implements Classifier.
func (c *RuleClassifier) Name() string { return "rules" }

// Rules returns the flattened rule table in scan order.
func (c *RuleClassifier) Rules() []domain.ClassificationRule {
	out := make([]domain.ClassificationRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Assign implements Classifier. It is a pure function of the rule table,
// the sentiment label and the content.
func (c *RuleClassifier) Assign(_ context.Context, label domain.Sentiment, content string) (Assignment, error) {
	if label == domain.SentimentNeutral && !c.classifyNeutral {
		return Assignment{}, nil
	}

	if c.matcher != nil {
		lowered := strings.ToLower(content)
		hits := c.matcher.Match([]byte(lowered))

		best := -1
		for _, hit := range hits {
			if hit >= len(c.patternToRule) {
				continue
			}
			ruleIdx := c.patternToRule[hit]
			if best == -1 || ruleIdx < best {
				best = ruleIdx
			}
		}
		if best >= 0 {
			rule := c.rules[best]
			return Assignment{
				Category1: rule.Category1,
				Category2: rule.Category2,
				Category3: rule.Keyword,
			}, nil
		}
	}

	return Assignment{
		Category1: domain.CategoryOther,
		Category2: domain.CategoryOther,
	}, nil
}

// Package dedup removes comments whose cleaned content was already seen
// earlier in the input sequence.
package dedup

import (
	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/logger"
)

// Deduplicator filters an ordered comment sequence down to first
// occurrences. Duplicates are resolved strictly by input order, never by
// timestamp or source, so the result is independent of any scheduling.
type Deduplicator struct {
	logger logger.Logger
}

// NewDeduplicator creates a Deduplicator.
func NewDeduplicator(log logger.Logger) *Deduplicator {
	return &Deduplicator{logger: log}
}

// Deduplicate returns the input comments in their original relative order,
// excluding every comment whose dedup key was emitted earlier. Later
// duplicates are discarded silently; the count is returned for auditing.
func (d *Deduplicator) Deduplicate(comments []domain.Comment) ([]domain.Comment, int) {
	seen := make(map[string]struct{}, len(comments))
	out := make([]domain.Comment, 0, len(comments))

	for _, c := range comments {
		key := c.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	dropped := len(comments) - len(out)
	d.logger.Info("deduplication complete",
		logger.Int("in", len(comments)),
		logger.Int("out", len(out)),
		logger.Int("duplicates", dropped))
	return out, dropped
}

package domain

// ClassificationRule is a single (category1, category2, keyword) triple.
// Rules are evaluated in a fixed global order and the first keyword found
// in the content wins, so the position of a rule in the flattened table is
// significant.
type ClassificationRule struct {
	Category1 string `json:"category1"`
	Category2 string `json:"category2"`
	Keyword   string `json:"keyword"`
}

// RuleSubgroup groups the keywords of one sub-category.
type RuleSubgroup struct {
	Category2 string   `json:"category2" yaml:"category2"`
	Keywords  []string `json:"keywords"  yaml:"keywords"`
}

// RuleGroup groups the sub-categories of one top-level category.
type RuleGroup struct {
	Category1 string         `json:"category1" yaml:"category1"`
	Subgroups []RuleSubgroup `json:"subgroups" yaml:"subgroups"`
}

// RuleTable is the ordered rule configuration: groups in declared order,
// subgroups in declared order within each group, keywords in declared
// order within each subgroup. It is read-only during a pipeline run.
type RuleTable struct {
	Groups []RuleGroup `json:"groups" yaml:"groups"`
}

// Flatten expands the table into the single global scan order: category1
// groups, then category2 subgroups, then keywords, in declaration order.
func (t RuleTable) Flatten() []ClassificationRule {
	var rules []ClassificationRule
	for _, g := range t.Groups {
		for _, s := range g.Subgroups {
			for _, kw := range s.Keywords {
				rules = append(rules, ClassificationRule{
					Category1: g.Category1,
					Category2: s.Category2,
					Keyword:   kw,
				})
			}
		}
	}
	return rules
}

// Empty reports whether the table declares no rules at all.
func (t RuleTable) Empty() bool {
	for _, g := range t.Groups {
		for _, s := range g.Subgroups {
			if len(s.Keywords) > 0 {
				return false
			}
		}
	}
	return true
}

// Fallback categories emitted when no rule matches.
const (
	CategoryOther = "Other"
)

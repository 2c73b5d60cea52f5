package classify

import "github.com/signalyze/sentinel/internal/domain"

// DefaultRuleTable is the built-in category taxonomy for electric-scooter
// feedback. Group, subgroup, and keyword order all matter: the flattened
// table is scanned front to back and the first hit wins.
func DefaultRuleTable() domain.RuleTable {
	return domain.RuleTable{
		Groups: []domain.RuleGroup{
			{
				Category1: "Product",
				Subgroups: []domain.RuleSubgroup{
					{
						Category2: "Battery & Range",
						Keywords:  []string{"battery", "range", "charge", "charging", "degradation", "drain"},
					},
					{
						Category2: "Performance & Power",
						Keywords:  []string{"motor", "power", "acceleration", "top speed", "torque"},
					},
					{
						Category2: "Build Quality",
						Keywords:  []string{"build", "finish", "fit", "frame", "quality", "sturdy"},
					},
				},
			},
			{
				Category1: "Technology & Software",
				Subgroups: []domain.RuleSubgroup{
					{
						Category2: "Infotainment & UI",
						Keywords:  []string{"display", "screen", "dashboard", "touchscreen"},
					},
					{
						Category2: "Connectivity",
						Keywords:  []string{"app", "bluetooth", "ota", "software update", "connect"},
					},
				},
			},
			{
				Category1: "Value & Price",
				Subgroups: []domain.RuleSubgroup{
					{
						Category2: "Price",
						Keywords:  []string{"price", "cost", "expensive", "affordable", "value"},
					},
					{
						Category2: "Incentives",
						Keywords:  []string{"discount", "offer", "subsidy"},
					},
				},
			},
			{
				Category1: "Customer Service",
				Subgroups: []domain.RuleSubgroup{
					{
						Category2: "Service Experience",
						Keywords:  []string{"service", "support", "dealer", "warranty"},
					},
				},
			},
			{
				Category1: "User Experience",
				Subgroups: []domain.RuleSubgroup{
					{
						Category2: "Comfort",
						Keywords:  []string{"seat", "comfort", "ride comfort"},
					},
					{
						Category2: "Noise & Vibration",
						Keywords:  []string{"noise", "vibration", "rattle"},
					},
				},
			},
		},
	}
}

// DefaultZeroShotLabels are the candidate top-level categories handed to
// the zero-shot model. The model picks one; it never produces a
// sub-category.
func DefaultZeroShotLabels() []string {
	return []string{
		"Product",
		"Software",
		"Battery & Range",
		"Performance & Power",
		"Value & Price",
		"Build Quality",
		"Service",
		"Other",
	}
}

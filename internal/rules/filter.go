package rules

import "github.com/Veraticus/basket/internal/model"

// Criteria are the final thresholds a rule must meet to be reported.
type Criteria struct {
	MinConfidence float64 // inclusive
	MinLift       float64 // exclusive
}

// DefaultCriteria keeps confident rules with positive correlation.
func DefaultCriteria() Criteria {
	return Criteria{MinConfidence: 0.7, MinLift: 1}
}

// Match reports whether r satisfies both thresholds.
func (c Criteria) Match(r model.Rule) bool {
	return r.Confidence >= c.MinConfidence && r.Lift > c.MinLift
}

// Filter returns the rules matching c, preserving order.
func Filter(rules []model.Rule, c Criteria) []model.Rule {
	kept := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		if c.Match(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Summarize averages support, confidence and lift across rules. An empty
// input yields a zero Summary whose Empty method reports true.
func Summarize(rules []model.Rule) model.Summary {
	if len(rules) == 0 {
		return model.Summary{}
	}

	var s model.Summary
	for _, r := range rules {
		s.MeanSupport += r.Support
		s.MeanConfidence += r.Confidence
		s.MeanLift += r.Lift
	}
	n := float64(len(rules))
	s.Count = len(rules)
	s.MeanSupport /= n
	s.MeanConfidence /= n
	s.MeanLift /= n
	return s
}

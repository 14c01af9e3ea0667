package model

import "math"

// Rule is an association rule Antecedents → Consequents derived from a
// single frequent itemset. The two sides are disjoint and non-empty.
type Rule struct {
	Antecedents       []string
	Consequents       []string
	AntecedentSupport float64
	ConsequentSupport float64
	Support           float64 // support(Antecedents ∪ Consequents)
	Confidence        float64
	Lift              float64
	Leverage          float64
	Conviction        float64 // +Inf when Confidence is 1
}

// Key identifies the rule by its two sides.
func (r Rule) Key() string {
	return ItemsKey(r.Antecedents) + "\x1e" + ItemsKey(r.Consequents)
}

// ItemsetKey identifies the itemset the rule was derived from.
func (r Rule) ItemsetKey() string {
	items := make([]string, 0, len(r.Antecedents)+len(r.Consequents))
	items = append(items, r.Antecedents...)
	items = append(items, r.Consequents...)
	return ItemsKey(items)
}

// String renders the rule as "{a} → {b}".
func (r Rule) String() string {
	return FormatItems(r.Antecedents) + " → " + FormatItems(r.Consequents)
}

// NewRule computes every metric for a split with the given supports.
// Callers must ensure antecedent and consequent supports are positive.
func NewRule(antecedents, consequents []string, supportAC, supportA, supportC float64) Rule {
	confidence := supportAC / supportA
	conviction := math.Inf(1)
	if confidence < 1 {
		conviction = (1 - supportC) / (1 - confidence)
	}
	return Rule{
		Antecedents:       antecedents,
		Consequents:       consequents,
		AntecedentSupport: supportA,
		ConsequentSupport: supportC,
		Support:           supportAC,
		Confidence:        confidence,
		Lift:              confidence / supportC,
		Leverage:          supportAC - supportA*supportC,
		Conviction:        conviction,
	}
}

// Summary aggregates the metrics of a set of rules.
type Summary struct {
	Count          int
	MeanSupport    float64
	MeanConfidence float64
	MeanLift       float64
}

// Empty reports whether the summary covers no rules, in which case the
// means are undefined and must not be displayed.
func (s Summary) Empty() bool {
	return s.Count == 0
}

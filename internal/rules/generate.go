package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/basket/internal/model"
)

// maxItemsetLen bounds the 2^k-2 split enumeration of a single itemset.
const maxItemsetLen = 30

// Generate derives every rule A → C where A ∪ C is a frequent itemset of
// at least two items and A, C are a non-empty disjoint split of it, keeping
// the rules whose metric reaches minThreshold.
//
// Supports of A and C are looked up among itemsets, which holds them as long
// as it came from a frequent-itemset miner. Splits whose antecedent or
// consequent support is unknown or zero are skipped.
func Generate(itemsets []model.Itemset, metric Metric, minThreshold float64) ([]model.Rule, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	support := make(map[string]float64, len(itemsets))
	for _, s := range itemsets {
		support[s.Key()] = s.Support
	}

	rules := []model.Rule{}
	skipped := 0
	for _, s := range itemsets {
		k := s.Len()
		if k < 2 {
			continue
		}
		if k > maxItemsetLen {
			return nil, fmt.Errorf("itemset of %d items is too large to split", k)
		}

		for mask := 1; mask < 1<<k-1; mask++ {
			antecedents, consequents := split(s.Items, mask)

			supA := support[model.ItemsKey(antecedents)]
			supC := support[model.ItemsKey(consequents)]
			if supA <= 0 || supC <= 0 {
				skipped++
				continue
			}

			rule := model.NewRule(antecedents, consequents, s.Support, supA, supC)
			if metric.Value(rule) >= minThreshold {
				rules = append(rules, rule)
			}
		}
	}

	Sort(rules)

	slog.Debug("Generated association rules",
		"itemsets", len(itemsets),
		"metric", metric,
		"min_threshold", minThreshold,
		"rules", len(rules),
		"skipped_splits", skipped)

	return rules, nil
}

// split partitions items by mask: set bits go to the antecedent side.
func split(items []string, mask int) (antecedents, consequents []string) {
	for i, item := range items {
		if mask&(1<<i) != 0 {
			antecedents = append(antecedents, item)
		} else {
			consequents = append(consequents, item)
		}
	}
	return antecedents, consequents
}

// Sort orders rules by descending lift, then confidence, then by their items.
func Sort(rules []model.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Key() < b.Key()
	})
}

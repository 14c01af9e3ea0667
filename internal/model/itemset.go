package model

import (
	"sort"
	"strings"
)

// Itemset is a set of items together with the fraction of transactions
// containing all of them.
type Itemset struct {
	Items   []string
	Support float64
}

// Len returns the number of items in the set.
func (s Itemset) Len() int {
	return len(s.Items)
}

// Key returns a canonical identifier for the item set, independent of the
// order its items were listed in.
func (s Itemset) Key() string {
	return ItemsKey(s.Items)
}

// String renders the set as "{a, b}".
func (s Itemset) String() string {
	return FormatItems(s.Items)
}

// ItemsKey builds the canonical key for a list of items.
func ItemsKey(items []string) string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// FormatItems renders items as "{a, b}".
func FormatItems(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}

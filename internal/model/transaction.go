package model

import "time"

// Purchase is a single row of a transaction log: one item bought by one customer.
type Purchase struct {
	Date       time.Time // Zero when the log has no date column
	CustomerID string
	Item       string
	Line       int // 1-based source line, for diagnostics
}

// Transaction groups every item a customer bought, in log order.
// Items may repeat; mining only looks at presence.
type Transaction struct {
	CustomerID string
	Items      []string
}

// ItemSet collapses duplicate items, keeping first-appearance order.
func (t Transaction) ItemSet() []string {
	seen := make(map[string]bool, len(t.Items))
	set := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		if seen[item] {
			continue
		}
		seen[item] = true
		set = append(set, item)
	}
	return set
}

// Package basket turns purchase rows into per-customer transactions and the
// boolean item-presence matrix that frequent-itemset mining runs on.
package basket

import "github.com/Veraticus/basket/internal/model"

// Group collects purchases into one transaction per customer. Transactions
// are returned in order of each customer's first appearance and keep the
// row order of their items.
func Group(purchases []model.Purchase) []model.Transaction {
	index := make(map[string]int)
	transactions := make([]model.Transaction, 0)

	for _, p := range purchases {
		i, ok := index[p.CustomerID]
		if !ok {
			i = len(transactions)
			index[p.CustomerID] = i
			transactions = append(transactions, model.Transaction{CustomerID: p.CustomerID})
		}
		transactions[i].Items = append(transactions[i].Items, p.Item)
	}

	return transactions
}

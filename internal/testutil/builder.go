// Package testutil builds purchase logs for tests. It offers a fluent API
// for describing baskets and writes them out in the layout the loader
// expects, so tests exercise the same path as real input files.
//
// Example:
//
//	path := testutil.NewLogBuilder(t).
//		WithFixture(testutil.FixturePaired).
//		WithBasket("9999", "milk", "eggs").
//		WriteCSV()
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/model"
)

// Basket is one customer's purchases, in purchase order.
type Basket struct {
	CustomerID string
	Items      []string
}

// LogBuilder accumulates baskets and renders them as purchases or files.
type LogBuilder struct {
	t       testing.TB
	start   time.Time
	baskets []Basket
}

// NewLogBuilder creates an empty builder.
func NewLogBuilder(t testing.TB) *LogBuilder {
	t.Helper()
	return &LogBuilder{
		t:     t,
		start: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithBasket adds one customer's purchases.
func (b *LogBuilder) WithBasket(customerID string, items ...string) *LogBuilder {
	b.baskets = append(b.baskets, Basket{CustomerID: customerID, Items: items})
	return b
}

// WithFixture adds every basket of a predefined fixture.
func (b *LogBuilder) WithFixture(f Fixture) *LogBuilder {
	b.baskets = append(b.baskets, f.Baskets()...)
	return b
}

// Purchases returns one purchase per item, with consecutive dates and the
// line numbers a CSV file with a header row would have.
func (b *LogBuilder) Purchases() []model.Purchase {
	var purchases []model.Purchase
	line := 2
	for i, basket := range b.baskets {
		date := b.start.AddDate(0, 0, i)
		for _, item := range basket.Items {
			purchases = append(purchases, model.Purchase{
				Date:       date,
				CustomerID: basket.CustomerID,
				Item:       item,
				Line:       line,
			})
			line++
		}
	}
	return purchases
}

// CSV renders the log in the Groceries dataset layout.
func (b *LogBuilder) CSV() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s,%s,%s\n", loader.DefaultCustomerColumn, loader.DefaultDateColumn, loader.DefaultItemColumn)
	for _, p := range b.Purchases() {
		fmt.Fprintf(&sb, "%s,%s,%s\n", p.CustomerID, p.Date.Format(loader.DefaultDateLayout), p.Item)
	}
	return sb.String()
}

// WriteCSV writes the log to a file in a fresh temporary directory and
// returns its path.
func (b *LogBuilder) WriteCSV() string {
	b.t.Helper()
	path := filepath.Join(b.t.TempDir(), "groceries.csv")
	if err := os.WriteFile(path, []byte(b.CSV()), 0o600); err != nil {
		b.t.Fatalf("failed to write purchase log: %v", err)
	}
	return path
}

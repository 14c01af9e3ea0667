package basket

import (
	"fmt"
	"sort"

	"github.com/Veraticus/basket/internal/model"
)

// Matrix is a boolean transaction × item table. Row r is the transaction of
// customer Rows()[r]; column c is item Columns()[c]. A cell is true when the
// item was bought at least once in that transaction; quantities are not kept.
//
// A Matrix is immutable once built.
type Matrix struct {
	rows    []string
	columns []string
	colIdx  map[string]int
	rowIdx  map[string]int
	cells   [][]bool
}

// ItemFrequency is the number of transactions containing an item.
type ItemFrequency struct {
	Item  string
	Count int
}

// Encode builds the presence matrix for transactions. The item universe is
// every item seen, in order of first appearance, so encoding the same input
// twice yields identical matrices.
func Encode(transactions []model.Transaction) *Matrix {
	var columns []string
	colIdx := make(map[string]int)
	sets := make([][]string, len(transactions))
	for r, txn := range transactions {
		sets[r] = txn.ItemSet()
		for _, item := range sets[r] {
			if _, ok := colIdx[item]; !ok {
				colIdx[item] = len(columns)
				columns = append(columns, item)
			}
		}
	}

	rows := make([]string, len(transactions))
	cells := make([][]bool, len(transactions))
	for r, txn := range transactions {
		rows[r] = txn.CustomerID
		cells[r] = make([]bool, len(columns))
		for _, item := range sets[r] {
			cells[r][colIdx[item]] = true
		}
	}

	return newMatrix(rows, columns, cells)
}

func newMatrix(rows, columns []string, cells [][]bool) *Matrix {
	if rows == nil {
		rows = []string{}
	}
	if columns == nil {
		columns = []string{}
	}
	m := &Matrix{
		rows:    rows,
		columns: columns,
		cells:   cells,
		colIdx:  make(map[string]int, len(columns)),
		rowIdx:  make(map[string]int, len(rows)),
	}
	for c, item := range columns {
		m.colIdx[item] = c
	}
	for r, id := range rows {
		if _, dup := m.rowIdx[id]; !dup {
			m.rowIdx[id] = r
		}
	}
	return m
}

// Rows returns the customer ids labelling each row.
func (m *Matrix) Rows() []string {
	return cloneStrings(m.rows)
}

// Columns returns the item names labelling each column.
func (m *Matrix) Columns() []string {
	return cloneStrings(m.columns)
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// NumRows returns the number of transactions.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumColumns returns the number of distinct items.
func (m *Matrix) NumColumns() int { return len(m.columns) }

// At reports whether transaction r contains item c.
func (m *Matrix) At(r, c int) bool {
	return m.cells[r][c]
}

// Has reports whether the customer's transaction contains item. Unknown
// customers or items report false.
func (m *Matrix) Has(customer, item string) bool {
	r, ok := m.rowIdx[customer]
	if !ok {
		return false
	}
	c, ok := m.colIdx[item]
	if !ok {
		return false
	}
	return m.cells[r][c]
}

// Column returns the index of item, or -1.
func (m *Matrix) Column(item string) int {
	if c, ok := m.colIdx[item]; ok {
		return c
	}
	return -1
}

// Equal reports whether both matrices have the same labels and cells.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || len(m.rows) != len(other.rows) || len(m.columns) != len(other.columns) {
		return false
	}
	for i := range m.rows {
		if m.rows[i] != other.rows[i] {
			return false
		}
	}
	for i := range m.columns {
		if m.columns[i] != other.columns[i] {
			return false
		}
	}
	for r := range m.cells {
		for c := range m.cells[r] {
			if m.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// ColumnSums returns, per column, the number of transactions containing the item.
func (m *Matrix) ColumnSums() []int {
	sums := make([]int, len(m.columns))
	for _, row := range m.cells {
		for c, present := range row {
			if present {
				sums[c]++
			}
		}
	}
	return sums
}

// ItemFrequencies returns column sums sorted by count, highest first. Ties
// keep column order.
func (m *Matrix) ItemFrequencies() []ItemFrequency {
	sums := m.ColumnSums()
	freqs := make([]ItemFrequency, len(m.columns))
	for c, item := range m.columns {
		freqs[c] = ItemFrequency{Item: item, Count: sums[c]}
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	return freqs
}

// RowDensity returns, per transaction, the fraction of the item universe it
// contains. A matrix without columns has density 0 everywhere.
func (m *Matrix) RowDensity() []float64 {
	density := make([]float64, len(m.rows))
	if len(m.columns) == 0 {
		return density
	}
	for r, row := range m.cells {
		n := 0
		for _, present := range row {
			if present {
				n++
			}
		}
		density[r] = float64(n) / float64(len(m.columns))
	}
	return density
}

// Prune keeps only the columns bought in at least minCount transactions.
// Row order is unchanged. When no column qualifies the result has zero
// columns but the same rows.
func (m *Matrix) Prune(minCount int) *Matrix {
	sums := m.ColumnSums()
	keep := make([]int, 0, len(m.columns))
	for c, sum := range sums {
		if sum >= minCount {
			keep = append(keep, c)
		}
	}

	columns := make([]string, len(keep))
	for i, c := range keep {
		columns[i] = m.columns[c]
	}

	cells := make([][]bool, len(m.rows))
	for r, row := range m.cells {
		cells[r] = make([]bool, len(keep))
		for i, c := range keep {
			cells[r][i] = row[c]
		}
	}

	return newMatrix(cloneStrings(m.rows), columns, cells)
}

// String summarizes the matrix dimensions.
func (m *Matrix) String() string {
	return fmt.Sprintf("%d transactions × %d items", len(m.rows), len(m.columns))
}

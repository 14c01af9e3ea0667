package fpgrowth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Veraticus/basket/internal/model"
)

// ErrInvalidSupport is returned when the minimum support is outside (0, 1].
var ErrInvalidSupport = errors.New("minimum support must be in (0, 1]")

// Dataset is a boolean transaction × item matrix.
type Dataset interface {
	NumRows() int
	NumColumns() int
	Columns() []string
	At(row, col int) bool
}

// Option tunes a mining run.
type Option func(*miner)

// WithMaxLen limits itemsets to at most n items. n <= 0 means unlimited.
func WithMaxLen(n int) Option {
	return func(m *miner) {
		m.maxLen = n
	}
}

type miner struct {
	ctx      context.Context
	columns  []string
	rank     []int // column index → position in frequency order, -1 if infrequent
	order    []int // frequent columns in rank order
	results  []model.Itemset
	rows     int
	minCount int
	maxLen   int
	visited  int
}

// Mine returns every itemset whose support is at least minSupport.
// An empty dataset yields no itemsets.
func Mine(ctx context.Context, data Dataset, minSupport float64, opts ...Option) ([]model.Itemset, error) {
	if math.IsNaN(minSupport) || minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSupport, minSupport)
	}

	m := &miner{
		ctx:     ctx,
		columns: data.Columns(),
		rows:    data.NumRows(),
		results: []model.Itemset{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rows == 0 || len(m.columns) == 0 {
		return m.results, nil
	}

	// Smallest transaction count whose support reaches minSupport. The
	// epsilon absorbs rounding in minSupport*rows, e.g. 0.07*100.
	m.minCount = max(1, int(math.Ceil(minSupport*float64(m.rows)-1e-9)))

	root := m.buildTree(data)
	if err := m.mine(root, len(m.order), nil); err != nil {
		return nil, err
	}

	sortItemsets(m.results)

	slog.Debug("FP-Growth finished",
		"transactions", m.rows,
		"frequent_items", len(m.order),
		"min_count", m.minCount,
		"itemsets", len(m.results),
		"conditional_trees", m.visited)

	return m.results, nil
}

// buildTree ranks the frequent columns and inserts every transaction.
func (m *miner) buildTree(data Dataset) *tree {
	numCols := len(m.columns)
	counts := make([]int, numCols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < numCols; c++ {
			if data.At(r, c) {
				counts[c]++
			}
		}
	}

	for c := 0; c < numCols; c++ {
		if counts[c] >= m.minCount {
			m.order = append(m.order, c)
		}
	}
	sort.SliceStable(m.order, func(i, j int) bool {
		return counts[m.order[i]] > counts[m.order[j]]
	})

	m.rank = make([]int, numCols)
	for c := range m.rank {
		m.rank[c] = -1
	}
	for pos, c := range m.order {
		m.rank[c] = pos
	}

	t := newTree(numCols)
	path := make([]int, 0, len(m.order))
	for r := 0; r < m.rows; r++ {
		path = path[:0]
		for _, c := range m.order {
			if data.At(r, c) {
				path = append(path, c)
			}
		}
		if len(path) > 0 {
			t.insert(path, 1)
		}
	}
	return t
}

// mine emits every frequent itemset ending in suffix found in t. Only the
// first limit ranked items can occur in t.
func (m *miner) mine(t *tree, limit int, suffix []int) error {
	m.visited++
	if err := m.ctx.Err(); err != nil {
		return err
	}

	for pos := limit - 1; pos >= 0; pos-- {
		item := m.order[pos]
		count := t.counts[item]
		if count < m.minCount {
			continue
		}

		itemset := make([]int, len(suffix)+1)
		copy(itemset, suffix)
		itemset[len(suffix)] = item
		m.emit(itemset, count)

		if m.maxLen > 0 && len(itemset) >= m.maxLen {
			continue
		}

		cond := m.conditionalTree(t, item)
		if cond.empty() {
			continue
		}
		if err := m.mine(cond, pos, itemset); err != nil {
			return err
		}
	}
	return nil
}

// conditionalTree builds the FP-tree of item's prefix paths, keeping only
// items that are still frequent within them.
func (m *miner) conditionalTree(t *tree, item int) *tree {
	paths, weights := t.prefixPaths(item)

	counts := make(map[int]int)
	for i, path := range paths {
		for _, c := range path {
			counts[c] += weights[i]
		}
	}

	cond := newTree(len(m.columns))
	filtered := make([]int, 0)
	for i, path := range paths {
		filtered = filtered[:0]
		for _, c := range path {
			if counts[c] >= m.minCount {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			cond.insert(filtered, weights[i])
		}
	}
	return cond
}

func (m *miner) emit(items []int, count int) {
	cols := make([]int, len(items))
	copy(cols, items)
	sort.Ints(cols)

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = m.columns[c]
	}
	m.results = append(m.results, model.Itemset{
		Items:   names,
		Support: float64(count) / float64(m.rows),
	})
}

func sortItemsets(sets []model.Itemset) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		if a.Len() != b.Len() {
			return a.Len() < b.Len()
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		return a.Key() < b.Key()
	})
}

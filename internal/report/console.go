// Package report prints the intermediate and final artifacts of an analysis
// run to the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Veraticus/basket/internal/basket"
	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Default truncation limits, in the spirit of a dataframe print.
const (
	DefaultMaxRows    = 20
	DefaultMaxColumns = 8
)

// Options control how much of each table is printed. Zero means no limit.
type Options struct {
	MaxRows    int
	MaxColumns int
}

// DefaultOptions returns the default truncation limits.
func DefaultOptions() Options {
	return Options{MaxRows: DefaultMaxRows, MaxColumns: DefaultMaxColumns}
}

// Console writes each analysis section to w as it is produced. It
// implements pipeline.Observer.
type Console struct {
	w    io.Writer
	err  error
	opts Options
}

// NewConsole creates a console reporter.
func NewConsole(w io.Writer, opts Options) *Console {
	return &Console{w: w, opts: opts}
}

// Err returns the first write error encountered, if any.
func (c *Console) Err() error {
	return c.err
}

// Transactions prints the binarized transaction matrix.
func (c *Console) Transactions(m *basket.Matrix) {
	c.section("Binarized transactions")
	c.matrix(m)
}

// ItemFrequencies prints how many transactions contain each item.
func (c *Console) ItemFrequencies(freqs []basket.ItemFrequency) {
	c.section("Item frequencies")
	rows := make([][]string, 0, len(freqs))
	for _, f := range c.limit(len(freqs)) {
		rows = append(rows, []string{freqs[f].Item, fmt.Sprintf("%d", freqs[f].Count)})
	}
	c.table([]string{"item", "transactions"}, rows)
	c.more(len(freqs), "items")
}

// Density prints the fraction of the item universe in each transaction.
func (c *Console) Density(customers []string, density []float64) {
	c.section("Transaction density")
	rows := make([][]string, 0, len(customers))
	for _, i := range c.limit(len(customers)) {
		rows = append(rows, []string{customers[i], fmt.Sprintf("%.6f", density[i])})
	}
	c.table([]string{"customer", "density"}, rows)
	c.more(len(customers), "transactions")
}

// FilteredTransactions prints the matrix restricted to frequent items.
func (c *Console) FilteredTransactions(m *basket.Matrix) {
	c.section("Filtered transactions")
	if m.NumColumns() == 0 {
		c.line(cli.FormatWarning("No item reaches the minimum frequency"))
	}
	c.matrix(m)
}

// Itemsets prints the frequent itemsets with their support.
func (c *Console) Itemsets(sets []model.Itemset) {
	c.section("Frequent itemsets (FP-Growth)")
	if len(sets) == 0 {
		c.line(cli.FormatWarning("No frequent itemsets"))
		return
	}
	rows := make([][]string, 0, len(sets))
	for _, i := range c.limit(len(sets)) {
		rows = append(rows, []string{formatFloat(sets[i].Support), sets[i].String()})
	}
	c.table([]string{"support", "itemsets"}, rows)
	c.more(len(sets), "itemsets")
}

// Rules prints the selected rules followed by the metric summary.
func (c *Console) Rules(rules []model.Rule, summary model.Summary) {
	c.section("Filtered association rules")
	if len(rules) > 0 {
		rows := make([][]string, 0, len(rules))
		for _, i := range c.limit(len(rules)) {
			r := rules[i]
			rows = append(rows, []string{
				model.FormatItems(r.Antecedents),
				model.FormatItems(r.Consequents),
				formatFloat(r.Support),
				formatFloat(r.Confidence),
				formatFloat(r.Lift),
			})
		}
		c.table([]string{"antecedents", "consequents", "support", "confidence", "lift"}, rows)
		c.more(len(rules), "rules")
	}

	c.line(cli.RenderBox("Metric summary", FormatSummary(summary)))
}

// FormatSummary renders the mean metrics, or a "no rules" notice when the
// summary covers no rules.
func FormatSummary(s model.Summary) string {
	if s.Empty() {
		return "No rules matched the filters."
	}
	return fmt.Sprintf("Rules: %d\nMean support: %.4f\nMean confidence: %.4f\nMean lift: %.4f",
		s.Count, s.MeanSupport, s.MeanConfidence, s.MeanLift)
}

func (c *Console) matrix(m *basket.Matrix) {
	columns := m.Columns()
	shown := columns
	if c.opts.MaxColumns > 0 && len(columns) > c.opts.MaxColumns {
		shown = columns[:c.opts.MaxColumns]
	}

	headers := append([]string{"customer"}, shown...)
	if len(shown) < len(columns) {
		headers = append(headers, "…")
	}

	customers := m.Rows()
	rows := make([][]string, 0, len(customers))
	for _, r := range c.limit(len(customers)) {
		row := make([]string, 0, len(headers))
		row = append(row, customers[r])
		for col := range shown {
			if m.At(r, col) {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if len(shown) < len(columns) {
			row = append(row, "…")
		}
		rows = append(rows, row)
	}

	c.table(headers, rows)
	c.line(cli.SubtleStyle.Render(fmt.Sprintf("[%d rows x %d columns]", m.NumRows(), m.NumColumns())))
}

func (c *Console) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(cli.SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.TableHeaderStyle
			}
			return cli.TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	c.line(t.Render())
}

// limit returns the indexes to print out of n.
func (c *Console) limit(n int) []int {
	if c.opts.MaxRows > 0 && n > c.opts.MaxRows {
		n = c.opts.MaxRows
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (c *Console) more(total int, noun string) {
	if c.opts.MaxRows > 0 && total > c.opts.MaxRows {
		c.line(cli.SubtleStyle.Render(fmt.Sprintf("… %d more %s", total-c.opts.MaxRows, noun)))
	}
}

func (c *Console) section(title string) {
	c.line(cli.FormatTitle(title))
}

func (c *Console) line(s string) {
	if c.err != nil {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, c.err = io.WriteString(c.w, s)
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4f", v)
}

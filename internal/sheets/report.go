package sheets

import (
	"context"
	"math"
	"time"

	"github.com/Veraticus/basket/internal/model"
)

// ReportWriter publishes the selected rules of one analysis run.
type ReportWriter interface {
	Write(ctx context.Context, rules []model.Rule, summary model.Summary, meta RunMeta) error
}

// RunMeta describes the analysis run a report belongs to.
type RunMeta struct {
	GeneratedAt   time.Time
	RunID         string
	Source        string
	Transactions  int
	Items         int
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
}

var rulesHeader = []any{
	"Antecedents",
	"Consequents",
	"Antecedent support",
	"Consequent support",
	"Support",
	"Confidence",
	"Lift",
	"Leverage",
	"Conviction",
}

// buildValues lays out the report: title, run details, summary block, then
// one row per rule. It returns the values and the index of the rules
// header row.
func buildValues(rules []model.Rule, summary model.Summary, meta RunMeta) ([][]any, int) {
	values := make([][]any, 0, 16+len(rules))

	values = append(values,
		[]any{"Market Basket Report", meta.Source, "Run " + meta.RunID},
		[]any{"Generated", meta.GeneratedAt.UTC().Format(time.RFC3339)},
		[]any{},
		[]any{"Summary"},
		[]any{"Transactions", meta.Transactions},
		[]any{"Items after filtering", meta.Items},
		[]any{"Min support", meta.MinSupport},
		[]any{"Min confidence", meta.MinConfidence},
		[]any{"Min lift (exclusive)", meta.MinLift},
	)

	if summary.Empty() {
		values = append(values, []any{"No rules matched the filters."})
	} else {
		values = append(values,
			[]any{"Rules", summary.Count},
			[]any{"Mean support", summary.MeanSupport},
			[]any{"Mean confidence", summary.MeanConfidence},
			[]any{"Mean lift", summary.MeanLift},
		)
	}

	values = append(values, []any{}, []any{"Association Rules"}, rulesHeader)
	headerRow := len(values) - 1

	for _, r := range rules {
		values = append(values, []any{
			model.FormatItems(r.Antecedents),
			model.FormatItems(r.Consequents),
			cellNumber(r.AntecedentSupport),
			cellNumber(r.ConsequentSupport),
			cellNumber(r.Support),
			cellNumber(r.Confidence),
			cellNumber(r.Lift),
			cellNumber(r.Leverage),
			cellNumber(r.Conviction),
		})
	}

	return values, headerRow
}

// cellNumber keeps values JSON-encodable; the Sheets API rejects Inf.
func cellNumber(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return ""
	}
	return v
}

// Package pipeline runs the market-basket analysis from transaction log to
// filtered association rules.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/basket/internal/basket"
	"github.com/Veraticus/basket/internal/fpgrowth"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/rules"
)

// Observer receives each intermediate artifact as soon as it is produced.
type Observer interface {
	Transactions(m *basket.Matrix)
	ItemFrequencies(freqs []basket.ItemFrequency)
	Density(customers []string, density []float64)
	FilteredTransactions(m *basket.Matrix)
	Itemsets(sets []model.Itemset)
	Rules(rules []model.Rule, summary model.Summary)
}

// Settings are the analysis thresholds.
type Settings struct {
	RuleMetric         rules.Metric
	MinItemFreq        int
	MinSupport         float64
	RuleMinThreshold   float64
	FinalMinConfidence float64
	FinalMinLift       float64
	MaxLen             int
}

// DefaultSettings mirrors the thresholds the analysis was tuned with.
func DefaultSettings() Settings {
	return Settings{
		MinItemFreq:        5,
		MinSupport:         0.01,
		RuleMetric:         rules.MetricLift,
		RuleMinThreshold:   1.5,
		FinalMinConfidence: 0.7,
		FinalMinLift:       1,
	}
}

// Criteria returns the final rule filter.
func (s Settings) Criteria() rules.Criteria {
	return rules.Criteria{MinConfidence: s.FinalMinConfidence, MinLift: s.FinalMinLift}
}

// Result holds every artifact of a run.
type Result struct {
	Transactions []model.Transaction
	Matrix       *basket.Matrix
	Frequencies  []basket.ItemFrequency
	Filtered     *basket.Matrix
	Itemsets     []model.Itemset
	Rules        []model.Rule // after the metric threshold
	Selected     []model.Rule // after the final criteria
	Summary      model.Summary
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	observer Observer
	settings Settings
}

// New creates a pipeline. A nil observer discards intermediate output.
func New(settings Settings, observer Observer) *Pipeline {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Pipeline{settings: settings, observer: observer}
}

// RunFile loads the log at path and analyzes it.
func (p *Pipeline) RunFile(ctx context.Context, path string, opts loader.Options) (*Result, error) {
	purchases, err := loader.Load(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded purchases", "rows", len(purchases))
	return p.Run(ctx, purchases)
}

// Run analyzes purchases. Degenerate data (no rows, no surviving items, no
// itemsets, no rules) produces empty results, not errors.
func (p *Pipeline) Run(ctx context.Context, purchases []model.Purchase) (*Result, error) {
	start := time.Now()
	res := &Result{}

	res.Transactions = basket.Group(purchases)
	res.Matrix = basket.Encode(res.Transactions)
	slog.Info("Encoded transactions",
		"transactions", res.Matrix.NumRows(),
		"items", res.Matrix.NumColumns())
	p.observer.Transactions(res.Matrix)

	res.Frequencies = res.Matrix.ItemFrequencies()
	p.observer.ItemFrequencies(res.Frequencies)
	p.observer.Density(res.Matrix.Rows(), res.Matrix.RowDensity())

	res.Filtered = res.Matrix.Prune(p.settings.MinItemFreq)
	slog.Info("Filtered rare items",
		"min_item_freq", p.settings.MinItemFreq,
		"kept", res.Filtered.NumColumns(),
		"dropped", res.Matrix.NumColumns()-res.Filtered.NumColumns())
	if res.Filtered.NumColumns() == 0 && res.Matrix.NumColumns() > 0 {
		slog.Warn("No item reaches the minimum frequency", "min_item_freq", p.settings.MinItemFreq)
	}
	p.observer.FilteredTransactions(res.Filtered)

	var opts []fpgrowth.Option
	if p.settings.MaxLen > 0 {
		opts = append(opts, fpgrowth.WithMaxLen(p.settings.MaxLen))
	}
	itemsets, err := fpgrowth.Mine(ctx, res.Filtered, p.settings.MinSupport, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to mine frequent itemsets: %w", err)
	}
	res.Itemsets = itemsets
	slog.Info("Mined frequent itemsets", "min_support", p.settings.MinSupport, "itemsets", len(itemsets))
	p.observer.Itemsets(res.Itemsets)

	generated, err := rules.Generate(res.Itemsets, p.settings.RuleMetric, p.settings.RuleMinThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rules: %w", err)
	}
	res.Rules = generated
	res.Selected = rules.Filter(generated, p.settings.Criteria())
	res.Summary = rules.Summarize(res.Selected)
	slog.Info("Selected association rules",
		"generated", len(res.Rules),
		"selected", len(res.Selected),
		"duration", time.Since(start))
	p.observer.Rules(res.Selected, res.Summary)

	return res, nil
}

type nopObserver struct{}

func (nopObserver) Transactions(*basket.Matrix)            {}
func (nopObserver) ItemFrequencies([]basket.ItemFrequency) {}
func (nopObserver) Density([]string, []float64)            {}
func (nopObserver) FilteredTransactions(*basket.Matrix)    {}
func (nopObserver) Itemsets([]model.Itemset)               {}
func (nopObserver) Rules([]model.Rule, model.Summary)      {}

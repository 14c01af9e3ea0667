package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/basket/internal/basket"
	"github.com/Veraticus/basket/internal/fpgrowth"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/rules"
	"github.com/Veraticus/basket/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	stages   []string
	matrix   *basket.Matrix
	filtered *basket.Matrix
	itemsets []model.Itemset
	rules    []model.Rule
	summary  model.Summary
}

func (r *recorder) Transactions(m *basket.Matrix) {
	r.stages = append(r.stages, "transactions")
	r.matrix = m
}

func (r *recorder) ItemFrequencies([]basket.ItemFrequency) {
	r.stages = append(r.stages, "frequencies")
}

func (r *recorder) Density([]string, []float64) {
	r.stages = append(r.stages, "density")
}

func (r *recorder) FilteredTransactions(m *basket.Matrix) {
	r.stages = append(r.stages, "filtered")
	r.filtered = m
}

func (r *recorder) Itemsets(sets []model.Itemset) {
	r.stages = append(r.stages, "itemsets")
	r.itemsets = sets
}

func (r *recorder) Rules(selected []model.Rule, summary model.Summary) {
	r.stages = append(r.stages, "rules")
	r.rules = selected
	r.summary = summary
}

func pairedBaskets(t *testing.T) []model.Purchase {
	return testutil.NewLogBuilder(t).WithFixture(testutil.FixturePaired).Purchases()
}

func TestRun_SelectsStrongRules(t *testing.T) {
	settings := Settings{
		MinItemFreq:        1,
		MinSupport:         0.2,
		RuleMetric:         rules.MetricLift,
		RuleMinThreshold:   1.5,
		FinalMinConfidence: 0.7,
		FinalMinLift:       1,
	}
	rec := &recorder{}

	res, err := New(settings, rec).Run(context.Background(), pairedBaskets(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"transactions", "frequencies", "density", "filtered", "itemsets", "rules"}, rec.stages)
	assert.Equal(t, 10, res.Matrix.NumRows())
	assert.Equal(t, []string{"beer", "chips", "milk", "bread"}, res.Matrix.Columns())
	assert.Len(t, res.Itemsets, 6)

	require.Len(t, res.Selected, 4)
	for _, r := range res.Selected {
		assert.InDelta(t, 1.0, r.Confidence, 1e-9)
		assert.InDelta(t, 2.0, r.Lift, 1e-9)
		assert.InDelta(t, 0.5, r.Support, 1e-9)
	}
	assert.Equal(t, 4, res.Summary.Count)
	assert.InDelta(t, 2.0, res.Summary.MeanLift, 1e-9)
	assert.Equal(t, res.Selected, rec.rules)
	assert.Equal(t, res.Summary, rec.summary)
}

func TestRun_ScenarioRuleExcludedByStrictLift(t *testing.T) {
	input := testutil.NewLogBuilder(t).WithFixture(testutil.FixtureScenario).Purchases()

	settings := Settings{
		MinItemFreq:        1,
		MinSupport:         0.5,
		RuleMetric:         rules.MetricConfidence,
		RuleMinThreshold:   0,
		FinalMinConfidence: 0.5,
		FinalMinLift:       1,
	}
	res, err := New(settings, nil).Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"milk", "bread", "eggs"}, res.Matrix.Columns())
	for r := 0; r < res.Matrix.NumRows(); r++ {
		assert.True(t, res.Matrix.At(r, 0), "milk is in every transaction")
	}

	keys := make([]string, len(res.Itemsets))
	for i, s := range res.Itemsets {
		keys[i] = s.String()
	}
	assert.Equal(t, []string{"{milk}", "{bread}", "{milk, bread}"}, keys)

	require.Len(t, res.Rules, 2)
	for _, r := range res.Rules {
		assert.InDelta(t, 1.0, r.Lift, 1e-9)
	}
	assert.Empty(t, res.Selected)
	assert.NotNil(t, res.Selected)
	assert.True(t, res.Summary.Empty())
}

func TestRun_DegenerateInput(t *testing.T) {
	tests := []struct {
		name      string
		purchases []model.Purchase
		settings  Settings
	}{
		{
			name:      "no purchases",
			purchases: nil,
			settings:  DefaultSettings(),
		},
		{
			name: "no item survives frequency filter",
			purchases: testutil.NewLogBuilder(t).
				WithBasket("c1", "milk").
				WithBasket("c2", "bread").
				Purchases(),
			settings: DefaultSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.settings, nil).Run(context.Background(), tt.purchases)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Filtered.NumColumns())
			assert.Empty(t, res.Itemsets)
			assert.Empty(t, res.Selected)
			assert.True(t, res.Summary.Empty())
		})
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.MinSupport = 0
	_, err := New(settings, nil).Run(context.Background(), pairedBaskets(t))
	require.ErrorIs(t, err, fpgrowth.ErrInvalidSupport)

	settings = DefaultSettings()
	settings.MinItemFreq = 1
	settings.RuleMetric = "zhangs_metric"
	_, err = New(settings, nil).Run(context.Background(), pairedBaskets(t))
	require.ErrorIs(t, err, rules.ErrUnknownMetric)
}

func TestRun_MaxLen(t *testing.T) {
	settings := Settings{
		MinItemFreq:      1,
		MinSupport:       0.2,
		RuleMetric:       rules.MetricLift,
		RuleMinThreshold: 1,
		MaxLen:           1,
	}
	res, err := New(settings, nil).Run(context.Background(), pairedBaskets(t))
	require.NoError(t, err)
	for _, s := range res.Itemsets {
		assert.Equal(t, 1, s.Len())
	}
	assert.Empty(t, res.Rules)
}

func TestRunFile(t *testing.T) {
	path := testutil.NewLogBuilder(t).
		WithBasket("1000", "whole milk", "yogurt").
		WithBasket("1001", "whole milk", "yogurt").
		WithBasket("1002", "soda").
		WriteCSV()

	settings := Settings{
		MinItemFreq:        2,
		MinSupport:         0.5,
		RuleMetric:         rules.MetricLift,
		RuleMinThreshold:   1,
		FinalMinConfidence: 0.7,
		FinalMinLift:       1,
	}
	res, err := New(settings, nil).RunFile(context.Background(), path, loader.DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.Transactions, 3)
	assert.Equal(t, []string{"whole milk", "yogurt"}, res.Filtered.Columns())
	require.Len(t, res.Selected, 2)
	assert.InDelta(t, 1.5, res.Selected[0].Lift, 1e-9)
}

func TestRunFile_MissingFile(t *testing.T) {
	_, err := New(DefaultSettings(), nil).RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), loader.DefaultOptions())
	require.ErrorIs(t, err, loader.ErrFileNotFound)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	settings := DefaultSettings()
	settings.MinItemFreq = 1
	_, err := New(settings, nil).Run(ctx, pairedBaskets(t))
	require.ErrorIs(t, err, context.Canceled)
}

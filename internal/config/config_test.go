package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/pipeline"
	"github.com/Veraticus/basket/internal/report"
	"github.com/Veraticus/basket/internal/rules"
	"github.com/Veraticus/basket/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	settings, err := cfg.Analysis.Settings()
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultSettings(), settings)

	assert.Equal(t, loader.DefaultOptions(), cfg.Input.LoaderOptions())
	assert.Equal(t, report.DefaultOptions(), cfg.Report.Options())
	assert.Equal(t, ChartAuto, cfg.Report.Chart)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `analysis:
  min_item_freq: 2
  min_support: 0.05
  rule_metric: Confidence
  rule_min_threshold: 0.5
  max_len: 3
input:
  customer_column: basket_id
  item_column: product
  delimiter: tab
report:
  chart: "off"
  max_rows: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	settings, err := cfg.Analysis.Settings()
	require.NoError(t, err)
	assert.Equal(t, rules.MetricConfidence, settings.RuleMetric)
	assert.Equal(t, 2, settings.MinItemFreq)
	assert.InDelta(t, 0.05, settings.MinSupport, 1e-12)
	assert.Equal(t, 3, settings.MaxLen)
	assert.InDelta(t, 0.7, settings.FinalMinConfidence, 1e-12, "unset keys keep defaults")

	opts := cfg.Input.LoaderOptions()
	assert.Equal(t, "basket_id", opts.Columns.Customer)
	assert.Equal(t, "product", opts.Columns.Item)
	assert.Equal(t, '\t', opts.Delimiter)

	assert.Equal(t, ChartOff, cfg.Report.Chart)
	assert.Equal(t, 0, cfg.Report.Options().MaxRows)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantMsg string
	}{
		{name: "zero support", key: "analysis.min_support", value: 0.0, wantMsg: "analysis.min_support must be > 0"},
		{name: "support above one", key: "analysis.min_support", value: 1.5, wantMsg: "analysis.min_support must be <= 1"},
		{name: "negative frequency", key: "analysis.min_item_freq", value: -1, wantMsg: "analysis.min_item_freq must be >= 0"},
		{name: "confidence above one", key: "analysis.final_min_confidence", value: 1.2, wantMsg: "analysis.final_min_confidence must be <= 1"},
		{name: "negative lift", key: "analysis.final_min_lift", value: -0.5, wantMsg: "analysis.final_min_lift must be >= 0"},
		{name: "unknown metric", key: "analysis.rule_metric", value: "zhangs_metric", wantMsg: "analysis.rule_metric must be one of"},
		{name: "unknown chart mode", key: "report.chart", value: "pie", wantMsg: "report.chart must be one of"},
		{name: "missing item column", key: "input.item_column", value: "", wantMsg: "input.item_column is required"},
		{name: "multi-character delimiter", key: "input.delimiter", value: "::", wantMsg: "input.delimiter must be a single character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input string
		want  rune
	}{
		{input: "", want: 0},
		{input: ",", want: ','},
		{input: ";", want: ';'},
		{input: "|", want: '|'},
		{input: "tab", want: '\t'},
		{input: "TAB", want: '\t'},
		{input: `\t`, want: '\t'},
		{input: "comma", want: ','},
		{input: `"`, want: 0},
		{input: "ab", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDelimiter(tt.input))
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}

	t.Run("missing credentials", func(t *testing.T) {
		_, err := LoadSheetsConfig(viper.New())
		require.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("viper keys", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.client_id", "client")
		v.Set("sheets.client_secret", "secret")
		v.Set("sheets.refresh_token", "token")
		v.Set("sheets.spreadsheet_id", "sheet-id")
		v.Set("sheets.batch_size", 50)

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "client", cfg.ClientID)
		assert.Equal(t, "sheet-id", cfg.SpreadsheetID)
		assert.Equal(t, 50, cfg.BatchSize)
		assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	})

	t.Run("environment fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "~/key.json")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Groceries")

		cfg, err := LoadSheetsConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "key.json"), cfg.ServiceAccountPath)
		assert.Equal(t, "Groceries", cfg.SpreadsheetName)
	})
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BASKET_DATA", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "logs", "x.csv"), ExpandPath("~/logs/x.csv"))
	assert.Equal(t, "/data/groceries.csv", ExpandPath("$BASKET_DATA/groceries.csv"))
	assert.Equal(t, "exports/log.csv", ExpandPath("./exports//log.csv"))
	assert.Equal(t, "~bob/log.csv", ExpandPath("~bob/log.csv"))

	t.Setenv("BASKET_DATA", "~/exports")
	assert.Equal(t, filepath.Join(home, "exports", "log.csv"), ExpandPath("$BASKET_DATA/log.csv"))
}

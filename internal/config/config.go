// Package config loads and validates the analysis configuration.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/pipeline"
	"github.com/Veraticus/basket/internal/report"
	"github.com/Veraticus/basket/internal/rules"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Chart display modes.
const (
	ChartAuto        = "auto"
	ChartInteractive = "interactive"
	ChartStatic      = "static"
	ChartOff         = "off"
)

// Config is the complete configuration of an analysis run.
type Config struct {
	Analysis Analysis `mapstructure:"analysis"`
	Input    Input    `mapstructure:"input"`
	Report   Report   `mapstructure:"report"`
}

// Analysis holds the mining and rule thresholds.
type Analysis struct {
	RuleMetric         string  `mapstructure:"rule_metric" validate:"required,metric"`
	MinItemFreq        int     `mapstructure:"min_item_freq" validate:"gte=0"`
	MinSupport         float64 `mapstructure:"min_support" validate:"gt=0,lte=1"`
	RuleMinThreshold   float64 `mapstructure:"rule_min_threshold" validate:"gte=0"`
	FinalMinConfidence float64 `mapstructure:"final_min_confidence" validate:"gte=0,lte=1"`
	FinalMinLift       float64 `mapstructure:"final_min_lift" validate:"gte=0"`
	MaxLen             int     `mapstructure:"max_len" validate:"gte=0"`
}

// Input describes the layout of the transaction log.
type Input struct {
	CustomerColumn string `mapstructure:"customer_column" validate:"required"`
	ItemColumn     string `mapstructure:"item_column" validate:"required"`
	DateColumn     string `mapstructure:"date_column"`
	DateLayout     string `mapstructure:"date_layout" validate:"required"`
	Delimiter      string `mapstructure:"delimiter" validate:"delimiter"`
	Sheet          string `mapstructure:"sheet"`
}

// Report controls console output.
type Report struct {
	Chart      string `mapstructure:"chart" validate:"oneof=auto interactive static off"`
	MaxRows    int    `mapstructure:"max_rows" validate:"gte=0"`
	MaxColumns int    `mapstructure:"max_columns" validate:"gte=0"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	settings := pipeline.DefaultSettings()
	v.SetDefault("analysis.min_item_freq", settings.MinItemFreq)
	v.SetDefault("analysis.min_support", settings.MinSupport)
	v.SetDefault("analysis.rule_metric", string(settings.RuleMetric))
	v.SetDefault("analysis.rule_min_threshold", settings.RuleMinThreshold)
	v.SetDefault("analysis.final_min_confidence", settings.FinalMinConfidence)
	v.SetDefault("analysis.final_min_lift", settings.FinalMinLift)
	v.SetDefault("analysis.max_len", 0)

	v.SetDefault("input.customer_column", loader.DefaultCustomerColumn)
	v.SetDefault("input.item_column", loader.DefaultItemColumn)
	v.SetDefault("input.date_column", loader.DefaultDateColumn)
	v.SetDefault("input.date_layout", loader.DefaultDateLayout)
	v.SetDefault("input.delimiter", "")
	v.SetDefault("input.sheet", "")

	v.SetDefault("report.chart", ChartAuto)
	v.SetDefault("report.max_rows", report.DefaultMaxRows)
	v.SetDefault("report.max_columns", report.DefaultMaxColumns)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Settings converts the analysis section into pipeline settings.
func (a Analysis) Settings() (pipeline.Settings, error) {
	metric, err := rules.ParseMetric(a.RuleMetric)
	if err != nil {
		return pipeline.Settings{}, err
	}
	return pipeline.Settings{
		RuleMetric:         metric,
		MinItemFreq:        a.MinItemFreq,
		MinSupport:         a.MinSupport,
		RuleMinThreshold:   a.RuleMinThreshold,
		FinalMinConfidence: a.FinalMinConfidence,
		FinalMinLift:       a.FinalMinLift,
		MaxLen:             a.MaxLen,
	}, nil
}

// LoaderOptions converts the input section into loader options.
func (in Input) LoaderOptions() loader.Options {
	return loader.Options{
		Columns: loader.Columns{
			Customer: in.CustomerColumn,
			Item:     in.ItemColumn,
			Date:     in.DateColumn,
		},
		DateLayout: in.DateLayout,
		Sheet:      in.Sheet,
		Delimiter:  parseDelimiter(in.Delimiter),
	}
}

// Options converts the report section into console options.
func (r Report) Options() report.Options {
	return report.Options{MaxRows: r.MaxRows, MaxColumns: r.MaxColumns}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		_, err := rules.ParseMetric(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || parseDelimiter(s) != 0
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseDelimiter accepts a single character or the names "tab" and
// "comma". It returns 0 for anything else.
func parseDelimiter(s string) rune {
	switch strings.ToLower(s) {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	case "comma":
		return ','
	case "semicolon":
		return ';'
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0
	}
	return r[0]
}

// describe turns a validation failure into "analysis.min_support must be
// > 0" style text.
func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return ns + " is required"
	case "gt":
		return fmt.Sprintf("%s must be > %s (got %v)", ns, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", ns, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s (got %v)", ns, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", ns, fe.Param(), fe.Value())
	case "metric":
		return fmt.Sprintf("%s must be one of %v (got %q)", ns, rules.Metrics(), fe.Value())
	case "delimiter":
		return fmt.Sprintf("%s must be a single character or \"tab\" (got %q)", ns, fe.Value())
	}
	return fmt.Sprintf("%s failed %s", ns, fe.Tag())
}

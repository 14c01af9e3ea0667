package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/basket/internal/common"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// inputFileArg accepts exactly one positional argument naming the log.
func inputFileArg(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 1:
		return nil
	case 0:
		return common.NewUserError("no input file given (usage: "+cmd.UseLine()+")", common.ErrNoInput)
	default:
		return fmt.Errorf("expected one input file, got %d arguments", len(args))
	}
}

// flagKeys maps command flags to the configuration keys they override.
var (
	inputFlagKeys = map[string]string{
		"customer-column": "input.customer_column",
		"item-column":     "input.item_column",
		"date-column":     "input.date_column",
		"date-layout":     "input.date_layout",
		"delimiter":       "input.delimiter",
		"sheet":           "input.sheet",
	}
	reportFlagKeys = map[string]string{
		"max-rows": "report.max_rows",
		"chart":    "report.chart",
	}
	analysisFlagKeys = map[string]string{
		"min-item-freq":  "analysis.min_item_freq",
		"min-support":    "analysis.min_support",
		"metric":         "analysis.rule_metric",
		"min-threshold":  "analysis.rule_min_threshold",
		"min-confidence": "analysis.final_min_confidence",
		"min-lift":       "analysis.final_min_lift",
		"max-len":        "analysis.max_len",
	}
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("customer-column", "", "column holding the customer id (default Member_number)")
	cmd.Flags().String("item-column", "", "column holding the item name (default itemDescription)")
	cmd.Flags().String("date-column", "", "column holding the purchase date (default Date)")
	cmd.Flags().String("date-layout", "", "Go time layout of the date column (default 02-01-2006)")
	cmd.Flags().String("delimiter", "", "field delimiter: a single character or \"tab\" (default from extension)")
	cmd.Flags().String("sheet", "", "worksheet to read from an .xlsx file (default first sheet)")
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-rows", 0, "rows printed per table, 0 for all (default 20)")
	cmd.Flags().String("chart", "", "item frequency chart: auto, interactive, static, off (default auto)")
}

// bindFlags points each configuration key at its flag. Binding happens when
// the command runs so that commands sharing a key do not shadow each other.
func bindFlags(cmd *cobra.Command, keys ...map[string]string) error {
	for _, m := range keys {
		for flag, key := range m {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/config"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/pipeline"
	"github.com/Veraticus/basket/internal/report"
	"github.com/Veraticus/basket/internal/sheets"
	"github.com/Veraticus/basket/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newReportWriter builds the Sheets exporter; tests replace it.
var newReportWriter = func(ctx context.Context) (sheets.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Mine association rules from a purchase log",
		Long: `Run the full market-basket analysis on a purchase log.

The log is grouped into one transaction per customer, binarized, pruned of
rare items and mined with FP-Growth. Every intermediate table is printed,
followed by the rules that pass the confidence and lift filters and their
mean metrics.

Examples:
  # Analyze the Groceries dataset with default thresholds
  basket analyze Groceries_dataset.csv

  # Lower the support threshold and rank rules by confidence
  basket analyze --min-support 0.005 --metric confidence --min-threshold 0.3 groceries.csv

  # Read a workbook with custom column names, no chart
  basket analyze --sheet Orders --customer-column order_id --item-column sku --chart off orders.xlsx

  # Publish the selected rules to Google Sheets
  basket analyze --export-sheets groceries.csv`,
		Args:    inputFileArg,
		PreRunE: bindAnalyzeFlags,
		RunE:    runAnalyze,
	}

	defaults := pipeline.DefaultSettings()
	cmd.Flags().Int("min-item-freq", defaults.MinItemFreq, "minimum number of transactions an item must appear in")
	cmd.Flags().Float64("min-support", defaults.MinSupport, "minimum support of a frequent itemset, in (0, 1]")
	cmd.Flags().String("metric", string(defaults.RuleMetric), "metric used to generate rules (support, confidence, lift, leverage, conviction)")
	cmd.Flags().Float64("min-threshold", defaults.RuleMinThreshold, "minimum value of --metric for a generated rule")
	cmd.Flags().Float64("min-confidence", defaults.FinalMinConfidence, "final filter: minimum confidence (inclusive)")
	cmd.Flags().Float64("min-lift", defaults.FinalMinLift, "final filter: minimum lift (exclusive)")
	cmd.Flags().Int("max-len", 0, "maximum itemset size, 0 for no limit")
	cmd.Flags().Bool("export-sheets", false, "publish the selected rules to Google Sheets")
	addInputFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

func bindAnalyzeFlags(cmd *cobra.Command, _ []string) error {
	return bindFlags(cmd, analysisFlagKeys, inputFlagKeys, reportFlagKeys)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interruptHandler.HandleInterrupts(cmd.Context())
	defer stop()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}
	settings, err := cfg.Analysis.Settings()
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}

	path := config.ExpandPath(args[0])
	opts := cfg.Input.LoaderOptions()
	if isTerminal(cmd.ErrOrStderr()) {
		opts.Progress = cmd.ErrOrStderr()
	}

	runID := uuid.NewString()
	slog.Info("Starting analysis",
		"run_id", runID,
		"file", path,
		"min_item_freq", settings.MinItemFreq,
		"min_support", settings.MinSupport,
		"metric", settings.RuleMetric)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Market basket analysis of "+filepath.Base(path)))

	console := report.NewConsole(out, cfg.Report.Options())
	res, err := pipeline.New(settings, console).RunFile(ctx, path, opts)
	if err != nil {
		if interruptHandler.WasInterrupted() {
			return context.Canceled
		}
		return inputError(err)
	}
	if err := console.Err(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := showChart(ctx, cmd, cfg.Report.Chart, tui.BarsFromFrequencies(res.Frequencies)); err != nil {
		return err
	}

	exportSheets, _ := cmd.Flags().GetBool("export-sheets")
	if exportSheets {
		meta := sheets.RunMeta{
			GeneratedAt:   time.Now(),
			RunID:         runID,
			Source:        filepath.Base(path),
			Transactions:  res.Matrix.NumRows(),
			Items:         res.Filtered.NumColumns(),
			MinSupport:    settings.MinSupport,
			MinConfidence: settings.FinalMinConfidence,
			MinLift:       settings.FinalMinLift,
		}
		if err := exportRules(ctx, res, meta); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Exported rules to Google Sheets"))
	}

	slog.Info("Analysis finished", "run_id", runID, "rules", res.Summary.Count)
	return nil
}

func exportRules(ctx context.Context, res *pipeline.Result, meta sheets.RunMeta) error {
	writer, err := newReportWriter(ctx)
	if err != nil {
		return common.NewUserError("Google Sheets export is not configured", err)
	}
	if err := writer.Write(ctx, res.Selected, res.Summary, meta); err != nil {
		common.LogError(err, "Sheets export failed", common.Fields{
			"run_id":    meta.RunID,
			"retryable": common.IsRetryable(err),
		})
		return common.NewUserError("Google Sheets export failed", err)
	}
	common.LogDebug("Sheets export finished", common.Fields{"run_id": meta.RunID, "rules": len(res.Selected)})
	return nil
}

// inputError turns loader failures into messages that name the problem.
func inputError(err error) error {
	switch {
	case errors.Is(err, loader.ErrFileNotFound):
		return common.NewUserError("input file not found", err)
	case errors.Is(err, loader.ErrMissingColumn):
		return common.NewUserError("input file is missing a required column (see --customer-column and --item-column)", err)
	case errors.Is(err, loader.ErrMalformedRow):
		return common.NewUserError("input file has a malformed row", err)
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return common.NewUserError("unsupported input format (use .csv, .tsv, .txt or .xlsx)", err)
	}
	return err
}

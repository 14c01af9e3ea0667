package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/basket/internal/basket"
	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/config"
	"github.com/Veraticus/basket/internal/loader"
	"github.com/Veraticus/basket/internal/report"
	"github.com/Veraticus/basket/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items <file>",
		Short: "Show how many transactions contain each item",
		Long: `Load a purchase log, group it into transactions and chart how many
transactions contain each item, most frequent first. No mining is done.`,
		Args: inputFileArg,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, inputFlagKeys, reportFlagKeys)
		},
		RunE: runItems,
	}

	addInputFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

func runItems(cmd *cobra.Command, args []string) error {
	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interruptHandler.HandleInterrupts(cmd.Context())
	defer stop()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}

	path := config.ExpandPath(args[0])
	opts := cfg.Input.LoaderOptions()
	if isTerminal(cmd.ErrOrStderr()) {
		opts.Progress = cmd.ErrOrStderr()
	}

	purchases, err := loader.Load(ctx, path, opts)
	if err != nil {
		if interruptHandler.WasInterrupted() {
			return context.Canceled
		}
		return inputError(err)
	}

	matrix := basket.Encode(basket.Group(purchases))
	freqs := matrix.ItemFrequencies()
	common.LogInfo("Counted item frequencies", common.Fields{
		"purchases":    len(purchases),
		"transactions": matrix.NumRows(),
		"items":        len(freqs),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Items in "+filepath.Base(path)))
	fmt.Fprintln(out, matrix.String())

	console := report.NewConsole(out, cfg.Report.Options())
	console.ItemFrequencies(freqs)
	if err := console.Err(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return showChart(ctx, cmd, cfg.Report.Chart, tui.BarsFromFrequencies(freqs))
}

package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/config"
	"github.com/Veraticus/basket/internal/tui"
	"github.com/Veraticus/basket/internal/tui/themes"
	"github.com/spf13/cobra"
)

// staticChartWidth bounds the static chart so it fits a typical terminal.
const staticChartWidth = 120

const chartTitle = "Item frequency in transactions"

// showChart displays the item-frequency chart in the configured mode.
func showChart(ctx context.Context, cmd *cobra.Command, mode string, bars []tui.Bar) error {
	if mode == config.ChartAuto {
		mode = config.ChartStatic
		if isTerminal(cmd.OutOrStdout()) && isTerminal(cmd.InOrStdin()) {
			mode = config.ChartInteractive
		}
	}

	out := cmd.OutOrStdout()
	switch mode {
	case config.ChartOff:
		return nil
	case config.ChartInteractive:
		if len(bars) == 0 {
			fmt.Fprintln(out, cli.FormatInfo("No items to chart"))
			return nil
		}
		if err := tui.RunChart(ctx, chartTitle, bars, cmd.InOrStdin(), out); err != nil {
			return err
		}
		return nil
	}

	theme := themes.Plain
	if isTerminal(out) {
		theme = themes.Default
	}

	shown := bars
	if len(bars) > 0 {
		if n := tui.ColumnsFor(staticChartWidth, bars[0].Count); n < len(bars) {
			shown = bars[:n]
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderStatic(shown, theme))
	if len(shown) < len(bars) {
		fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("showing the %d most frequent of %d items", len(shown), len(bars))))
	}
	return nil
}

// Package tui renders the item-frequency bar chart, either as static text or
// as an interactive bubbletea program.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/basket/internal/basket"
	"github.com/Veraticus/basket/internal/tui/themes"
)

// Chart layout.
const (
	DefaultChartHeight = 12
	DefaultLabelHeight = 10
	columnWidth        = 2 // bar plus gap
	barGlyph           = "█"
)

// Bar is one column of the chart.
type Bar struct {
	Label string
	Count int
}

// BarsFromFrequencies converts item frequencies into chart bars, keeping
// their order.
func BarsFromFrequencies(freqs []basket.ItemFrequency) []Bar {
	bars := make([]Bar, len(freqs))
	for i, f := range freqs {
		bars[i] = Bar{Label: f.Item, Count: f.Count}
	}
	return bars
}

// Layout sizes a rendered chart.
type Layout struct {
	Height      int // rows of bar area
	LabelHeight int // rows of vertical item labels
	MaxCount    int // y-axis top; 0 derives it from the bars
}

// DefaultLayout returns the layout used by the static chart.
func DefaultLayout() Layout {
	return Layout{Height: DefaultChartHeight, LabelHeight: DefaultLabelHeight}
}

// Render draws bars as vertical columns with transaction counts on the y
// axis and item names written top to bottom under each column.
func Render(bars []Bar, layout Layout, theme themes.Theme) string {
	if layout.Height <= 0 {
		layout.Height = DefaultChartHeight
	}
	if layout.LabelHeight <= 0 {
		layout.LabelHeight = DefaultLabelHeight
	}

	maxCount := layout.MaxCount
	if maxCount <= 0 {
		for _, b := range bars {
			maxCount = max(maxCount, b.Count)
		}
	}
	if len(bars) == 0 || maxCount == 0 {
		return theme.Subtitle.Render("(no items to chart)")
	}

	heights := make([]int, len(bars))
	for i, b := range bars {
		heights[i] = barHeight(b.Count, maxCount, layout.Height)
	}

	axisWidth := len(fmt.Sprintf("%d", maxCount))
	var sb strings.Builder

	for level := layout.Height; level >= 1; level-- {
		tick := ""
		switch level {
		case layout.Height:
			tick = fmt.Sprintf("%d", maxCount)
		case (layout.Height + 1) / 2:
			tick = fmt.Sprintf("%d", maxCount*level/layout.Height)
		}
		sb.WriteString(theme.Axis.Render(fmt.Sprintf("%*s ┤", axisWidth, tick)))

		var row strings.Builder
		for _, h := range heights {
			if h >= level {
				row.WriteString(barGlyph)
			} else {
				row.WriteString(" ")
			}
			row.WriteString(strings.Repeat(" ", columnWidth-1))
		}
		sb.WriteString(theme.Bar.Render(strings.TrimRight(row.String(), " ")))
		sb.WriteString("\n")
	}

	sb.WriteString(theme.Axis.Render(fmt.Sprintf("%*s └%s", axisWidth, "0", strings.Repeat("─", len(bars)*columnWidth))))
	sb.WriteString("\n")

	labels := make([][]rune, len(bars))
	for i, b := range bars {
		labels[i] = []rune(b.Label)
	}
	pad := strings.Repeat(" ", axisWidth+2)
	for r := 0; r < layout.LabelHeight; r++ {
		var row strings.Builder
		for _, label := range labels {
			if r < len(label) {
				row.WriteRune(label[r])
			} else {
				row.WriteString(" ")
			}
			row.WriteString(strings.Repeat(" ", columnWidth-1))
		}
		line := strings.TrimRight(row.String(), " ")
		if line == "" {
			break
		}
		sb.WriteString(pad)
		sb.WriteString(theme.Label.Render(line))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderStatic renders the full chart with a title, for non-interactive
// output.
func RenderStatic(bars []Bar, theme themes.Theme) string {
	title := theme.Title.Render("Item frequency in transactions")
	caption := theme.Subtitle.Render("y: number of transactions · x: items")
	return title + "\n" + caption + "\n\n" + Render(bars, DefaultLayout(), theme)
}

// barHeight scales count to [1, height]; any non-zero count stays visible.
func barHeight(count, maxCount, height int) int {
	if count <= 0 {
		return 0
	}
	h := int(math.Round(float64(count) / float64(maxCount) * float64(height)))
	return min(max(h, 1), height)
}

// ColumnsFor returns how many bars fit in width terminal columns.
func ColumnsFor(width, maxCount int) int {
	axisWidth := len(fmt.Sprintf("%d", maxCount)) + 2
	return max(1, (width-axisWidth)/columnWidth)
}

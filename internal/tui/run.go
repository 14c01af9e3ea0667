package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/basket/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// RunChart shows the interactive chart until the user closes it or ctx is
// canceled.
func RunChart(ctx context.Context, title string, bars []Bar, in io.Reader, out io.Writer) error {
	model := NewChartModel(title, bars, themes.Default)

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("chart viewer failed: %w", err)
	}
	return nil
}

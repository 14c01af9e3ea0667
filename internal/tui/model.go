package tui

import (
	"fmt"

	"github.com/Veraticus/basket/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chrome is the number of lines used by title, status and help.
const chrome = 5

// ChartModel is a horizontally scrollable bar chart.
type ChartModel struct {
	theme    themes.Theme
	title    string
	bars     []Bar
	keys     KeyMap
	help     help.Model
	offset   int
	width    int
	height   int
	maxCount int
}

// NewChartModel creates a chart viewer over bars.
func NewChartModel(title string, bars []Bar, theme themes.Theme) ChartModel {
	maxCount := 0
	for _, b := range bars {
		maxCount = max(maxCount, b.Count)
	}
	return ChartModel{
		theme:    theme,
		title:    title,
		bars:     bars,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
		maxCount: maxCount,
	}
}

// Init implements tea.Model.
func (m ChartModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.offset = m.clamp(m.offset)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.offset = m.clamp(m.offset - 1)
		case key.Matches(msg, m.keys.Right):
			m.offset = m.clamp(m.offset + 1)
		case key.Matches(msg, m.keys.PageLeft):
			m.offset = m.clamp(m.offset - m.visible())
		case key.Matches(msg, m.keys.PageRight):
			m.offset = m.clamp(m.offset + m.visible())
		case key.Matches(msg, m.keys.Home):
			m.offset = 0
		case key.Matches(msg, m.keys.End):
			m.offset = m.clamp(len(m.bars))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m ChartModel) View() string {
	end := min(m.offset+m.visible(), len(m.bars))
	layout := m.layout()
	chart := Render(m.bars[m.offset:end], layout, m.theme)

	status := "no items"
	if len(m.bars) > 0 {
		status = fmt.Sprintf("items %d–%d of %d", m.offset+1, end, len(m.bars))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(m.title),
		"",
		chart,
		"",
		m.theme.Status.Render(status),
		m.help.View(m.keys),
	)
}

// Offset returns the index of the first visible bar.
func (m ChartModel) Offset() int {
	return m.offset
}

func (m ChartModel) visible() int {
	return ColumnsFor(m.width, m.maxCount)
}

func (m ChartModel) layout() Layout {
	avail := max(m.height-chrome-1, 4)
	labelHeight := min(DefaultLabelHeight, avail/3)
	return Layout{
		Height:      max(avail-labelHeight, 2),
		LabelHeight: max(labelHeight, 1),
		MaxCount:    m.maxCount,
	}
}

func (m ChartModel) clamp(offset int) int {
	last := max(len(m.bars)-m.visible(), 0)
	return min(max(offset, 0), last)
}

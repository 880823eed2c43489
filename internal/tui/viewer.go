// Package tui shows the analysis plots in an interactive terminal viewer.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/plot"
	"github.com/Veraticus/shopper-segments/internal/tui/themes"
)

// Tab identifies a plot.
type Tab int

// Plots in display order.
const (
	TabElbow Tab = iota
	TabSegments
	tabCount
)

var tabNames = [...]string{
	TabElbow:    "Elbow",
	TabSegments: "Customer Segments",
}

func (t Tab) String() string {
	return tabNames[t]
}

// Default terminal size used before the first resize message.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// PlotViewer is the bubbletea model for the plot viewer.
type PlotViewer struct {
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	elbow    []cluster.ElbowPoint
	points   []plot.Point
	tab      Tab
	width    int
	height   int
	quitting bool
}

// NewPlotViewer creates a viewer over the elbow sweep and the clustered
// customers.
func NewPlotViewer(elbow []cluster.ElbowPoint, points []plot.Point, theme themes.Theme) PlotViewer {
	h := help.New()
	h.Styles.ShortKey = theme.Help.Bold(true)
	h.Styles.ShortDesc = theme.Help
	h.Styles.FullKey = theme.Help.Bold(true)
	h.Styles.FullDesc = theme.Help

	return PlotViewer{
		theme:  theme,
		keymap: DefaultKeyMap(),
		help:   h,
		elbow:  elbow,
		points: points,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Init implements tea.Model.
func (m PlotViewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PlotViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Next):
			m.tab = (m.tab + 1) % tabCount
		case key.Matches(msg, m.keymap.Prev):
			m.tab = (m.tab + tabCount - 1) % tabCount
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m PlotViewer) View() string {
	if m.quitting {
		return ""
	}

	tabs := make([]string, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.theme.TabInactive
		if t == m.tab {
			style = m.theme.TabActive
		}
		tabs[t] = style.Render(t.String())
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	footer := m.help.View(m.keymap)
	chart := m.theme.Box.Render(m.chart())

	return strings.Join([]string{header, chart, footer}, "\n")
}

// chart renders the active plot sized to the terminal.
func (m PlotViewer) chart() string {
	// Leave room for the tab bar, box border, axes, legend and help.
	opts := plot.Options{
		Palette: m.theme.Clusters,
		Width:   m.width - 16,
		Height:  m.height - 12,
	}

	switch m.tab {
	case TabSegments:
		return plot.Scatter(m.points, opts)
	default:
		// The elbow listing adds one line per k.
		opts.Height -= len(m.elbow)
		return plot.Elbow(m.elbow, opts)
	}
}

// ActiveTab returns the plot on screen.
func (m PlotViewer) ActiveTab() Tab {
	return m.tab
}

package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/plot"
	"github.com/Veraticus/shopper-segments/internal/tui/themes"
)

func testViewer() PlotViewer {
	elbow := []cluster.ElbowPoint{{K: 1, Inertia: 900}, {K: 2, Inertia: 500}, {K: 3, Inertia: 300}}
	points := []plot.Point{{X: 20, Y: 30, Cluster: 0}, {X: 60, Y: 90, Cluster: 1}}
	return NewPlotViewer(elbow, points, themes.Default)
}

func press(t *testing.T, m PlotViewer, msg tea.KeyMsg) (PlotViewer, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	viewer, ok := updated.(PlotViewer)
	require.True(t, ok)
	return viewer, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlotViewerTabs(t *testing.T) {
	m := testViewer()
	assert.Equal(t, TabElbow, m.ActiveTab())
	assert.Nil(t, m.Init())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabSegments, m.ActiveTab())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, TabElbow, m.ActiveTab(), "tabs wrap around")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabSegments, m.ActiveTab())

	m, _ = press(t, m, runes("h"))
	assert.Equal(t, TabElbow, m.ActiveTab())
}

func TestPlotViewerViews(t *testing.T) {
	m := testViewer()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	m = updated.(PlotViewer)

	view := m.View()
	assert.Contains(t, view, "Elbow")
	assert.Contains(t, view, "Customer Segments")
	assert.Contains(t, view, "Elbow Method for Optimal k")
	assert.Contains(t, view, "k=2   inertia=500.00")
	assert.Contains(t, view, "next plot")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	view = m.View()
	assert.Contains(t, view, "Purchase Amount (USD)")
	assert.Contains(t, view, "Cluster 1 (1)")
	assert.NotContains(t, view, "inertia=")
}

func TestPlotViewerHelpToggle(t *testing.T) {
	m := testViewer()
	assert.NotContains(t, m.View(), "force quit")

	m, _ = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "force quit")
	assert.Contains(t, m.View(), "previous plot")

	m, _ = press(t, m, runes("?"))
	assert.NotContains(t, m.View(), "force quit")
}

func TestPlotViewerQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(msg.String(), func(t *testing.T) {
			m, cmd := press(t, testViewer(), msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestPlotViewerTinyTerminal(t *testing.T) {
	m := testViewer()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	m = updated.(PlotViewer)
	assert.NotEmpty(t, m.View())
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, themes.CatppuccinMocha.Primary, themes.GetTheme("catppuccin").Primary)
	assert.Equal(t, themes.Default.Primary, themes.GetTheme("default").Primary)
	assert.Equal(t, themes.Default.Primary, themes.GetTheme("unknown").Primary)
}

func TestShowPlotsQuitsOnKey(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := ShowPlots(ctx,
		[]cluster.ElbowPoint{{K: 1, Inertia: 10}},
		nil,
		WithIO(strings.NewReader("q"), &out),
		WithTheme(themes.CatppuccinMocha),
	)
	require.NoError(t, err)
}

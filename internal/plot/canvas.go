// Package plot renders small text charts for terminals: the elbow curve of
// the cluster-count sweep and the age against purchase amount scatter.
package plot

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Minimum plotting area.
const (
	MinWidth  = 10
	MinHeight = 5
)

// DefaultPalette colors clusters in order, wrapping around.
var DefaultPalette = []lipgloss.Color{
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#ec4899"),
}

// Glyphs mark clusters so charts stay readable without color.
var Glyphs = []rune{'●', '▲', '■', '◆', '✚', '★'}

// Options sizes and colors a chart. Width and Height are the plotting area
// in cells, without axes or legend.
type Options struct {
	Title   string
	Palette []lipgloss.Color
	Width   int
	Height  int
}

func (o Options) normalized() Options {
	o.Width = max(o.Width, MinWidth)
	o.Height = max(o.Height, MinHeight)
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}
	return o
}

func (o Options) color(i int) lipgloss.Color {
	return o.Palette[i%len(o.Palette)]
}

const noColor = -1

type canvas struct {
	cells  [][]rune
	colors [][]int
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]int, height)
	for r := 0; r < height; r++ {
		c.cells[r] = []rune(strings.Repeat(" ", width))
		c.colors[r] = make([]int, width)
		for col := 0; col < width; col++ {
			c.colors[r][col] = noColor
		}
	}
	return c
}

func (c *canvas) set(col, row int, glyph rune, color int) {
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return
	}
	c.cells[row][col] = glyph
	c.colors[row][col] = color
}

func (c *canvas) get(col, row int) rune {
	return c.cells[row][col]
}

// axis maps data values onto cell positions.
type axis struct {
	min, max float64
	cells    int
}

func newAxis(values []float64, cells int) axis {
	a := axis{min: math.Inf(1), max: math.Inf(-1), cells: cells}
	for _, v := range values {
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
	if math.IsInf(a.min, 1) {
		a.min, a.max = 0, 1
	}
	return a
}

func (a axis) pos(v float64) int {
	span := a.max - a.min
	if span == 0 {
		return (a.cells - 1) / 2
	}
	return int(math.Round((v - a.min) / span * float64(a.cells-1)))
}

// frame draws axes and tick labels around the canvas.
func (c *canvas) frame(opts Options, x, y axis, xName, yName string) string {
	top, bottom := formatTick(y.max), formatTick(y.min)
	gutter := max(len(top), len(bottom))

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(opts.Title))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", gutter) + "  " + yName + "\n")

	for row := 0; row < c.height; row++ {
		label := ""
		switch row {
		case 0:
			label = top
		case c.height - 1:
			label = bottom
		}
		b.WriteString(padLeft(label, gutter))
		b.WriteString(" │")
		for col := 0; col < c.width; col++ {
			b.WriteString(c.renderCell(opts, col, row))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", gutter) + " └" + strings.Repeat("─", c.width) + "\n")

	left, right := formatTick(x.min), formatTick(x.max)
	gap := max(c.width-len(left)-len(right), 1)
	b.WriteString(strings.Repeat(" ", gutter+2) + left + strings.Repeat(" ", gap) + right + "\n")
	b.WriteString(strings.Repeat(" ", gutter+2) + padLeft(xName, c.width))
	return b.String()
}

func (c *canvas) renderCell(opts Options, col, row int) string {
	glyph := string(c.cells[row][col])
	color := c.colors[row][col]
	if color == noColor {
		return glyph
	}
	return lipgloss.NewStyle().Foreground(opts.color(color)).Render(glyph)
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1e5 {
		return strconv.FormatFloat(v, 'e', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

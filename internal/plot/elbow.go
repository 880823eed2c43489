package plot

import (
	"fmt"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/cluster"
)

// Elbow draws inertia against cluster count. Each sweep point is a marker;
// neighbors are joined by a dotted line.
func Elbow(points []cluster.ElbowPoint, opts Options) string {
	opts = opts.normalized()
	if opts.Title == "" {
		opts.Title = "Elbow Method for Optimal k"
	}
	if len(points) == 0 {
		return opts.Title + "\n(no data)"
	}

	ks := make([]float64, len(points))
	inertias := make([]float64, len(points))
	for i, p := range points {
		ks[i] = float64(p.K)
		inertias[i] = p.Inertia
	}
	x := newAxis(ks, opts.Width)
	y := newAxis(inertias, opts.Height)

	c := newCanvas(opts.Width, opts.Height)
	for i := 1; i < len(points); i++ {
		c.line(x.pos(ks[i-1]), flip(y, inertias[i-1]), x.pos(ks[i]), flip(y, inertias[i]))
	}
	for i := range points {
		c.set(x.pos(ks[i]), flip(y, inertias[i]), Glyphs[0], 0)
	}

	var b strings.Builder
	b.WriteString(c.frame(opts, x, y, "Number of clusters", "Inertia"))
	b.WriteString("\n\n")
	for _, p := range points {
		b.WriteString(fmt.Sprintf("  k=%-3d inertia=%.2f\n", p.K, p.Inertia))
	}
	return strings.TrimRight(b.String(), "\n")
}

// flip converts a value to a row index counted from the top.
func flip(a axis, v float64) int {
	return a.cells - 1 - a.pos(v)
}

// line joins two cells with dots, leaving existing glyphs alone.
func (c *canvas) line(x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		return
	}
	for s := 1; s < steps; s++ {
		col := x0 + (x1-x0)*s/steps
		row := y0 + (y1-y0)*s/steps
		if c.get(col, row) == ' ' {
			c.set(col, row, '·', noColor)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

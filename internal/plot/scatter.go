package plot

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/shopper-segments/internal/model"
)

// Point is one customer in the segments scatter.
type Point struct {
	X       float64
	Y       float64
	Cluster int
}

// CustomerPoints pairs each record's age and purchase amount with its
// cluster label. Records missing either value are skipped.
func CustomerPoints(table *model.Table, labels []int) []Point {
	points := make([]Point, 0, table.Len())
	for i, tx := range table.Rows() {
		if i >= len(labels) || math.IsNaN(tx.Age) || math.IsNaN(tx.PurchaseAmount) {
			continue
		}
		points = append(points, Point{X: tx.Age, Y: tx.PurchaseAmount, Cluster: labels[i]})
	}
	return points
}

// Scatter draws purchase amount against age with one glyph and color per
// cluster, followed by a legend. When several customers share a cell the
// last one drawn wins.
func Scatter(points []Point, opts Options) string {
	opts = opts.normalized()
	if opts.Title == "" {
		opts.Title = "Customer Segments"
	}
	if len(points) == 0 {
		return opts.Title + "\n(no data)"
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	counts := make(map[int]int)
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		counts[p.Cluster]++
	}
	x := newAxis(xs, opts.Width)
	y := newAxis(ys, opts.Height)

	c := newCanvas(opts.Width, opts.Height)
	for _, p := range points {
		c.set(x.pos(p.X), flip(y, p.Y), glyph(p.Cluster), p.Cluster)
	}

	var b strings.Builder
	b.WriteString(c.frame(opts, x, y, "Age", "Purchase Amount (USD)"))
	b.WriteString("\n\n")
	b.WriteString(legend(counts, opts))
	return b.String()
}

func legend(counts map[int]int, opts Options) string {
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]string, len(ids))
	for i, id := range ids {
		marker := lipgloss.NewStyle().Foreground(opts.color(id)).Render(string(glyph(id)))
		entries[i] = fmt.Sprintf("%s Cluster %d (%d)", marker, id, counts[id])
	}
	return "  " + strings.Join(entries, "   ")
}

func glyph(clusterID int) rune {
	return Glyphs[clusterID%len(Glyphs)]
}

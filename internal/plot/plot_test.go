package plot

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/model"
)

func chartRows(t *testing.T, out string) []string {
	t.Helper()
	var rows []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "│") {
			rows = append(rows, line[strings.Index(line, "│")+len("│"):])
		}
	}
	return rows
}

func TestElbow(t *testing.T) {
	points := []cluster.ElbowPoint{
		{K: 1, Inertia: 1000},
		{K: 2, Inertia: 400},
		{K: 3, Inertia: 250},
		{K: 4, Inertia: 200},
	}

	out := Elbow(points, Options{Width: 30, Height: 8})

	assert.Contains(t, out, "Elbow Method for Optimal k")
	assert.Contains(t, out, "Number of clusters")
	assert.Contains(t, out, "Inertia")
	assert.Contains(t, out, "k=1   inertia=1000.00")
	assert.Contains(t, out, "k=4   inertia=200.00")

	rows := chartRows(t, out)
	require.Len(t, rows, 8)
	// Highest inertia sits at the top-left corner, lowest at the bottom-right.
	assert.True(t, strings.HasPrefix(rows[0], "●"), rows[0])
	assert.True(t, strings.HasSuffix(rows[7], "●"), rows[7])
	assert.Equal(t, 4, strings.Count(out, "●"))
	assert.Contains(t, out, "·")
}

func TestElbowEmptyAndFlat(t *testing.T) {
	assert.Contains(t, Elbow(nil, Options{}), "(no data)")

	out := Elbow([]cluster.ElbowPoint{{K: 1, Inertia: 0}, {K: 2, Inertia: 0}}, Options{Width: 12, Height: 5})
	rows := chartRows(t, out)
	require.Len(t, rows, 5)
	assert.Equal(t, 2, strings.Count(rows[2], "●"))
}

func TestOptionsMinimumSize(t *testing.T) {
	out := Elbow([]cluster.ElbowPoint{{K: 1, Inertia: 5}}, Options{Width: 1, Height: 1})
	assert.Len(t, chartRows(t, out), MinHeight)
}

func TestScatter(t *testing.T) {
	points := []Point{
		{X: 18, Y: 100, Cluster: 0},
		{X: 70, Y: 20, Cluster: 1},
		{X: 40, Y: 60, Cluster: 1},
	}

	out := Scatter(points, Options{Width: 20, Height: 6, Title: "Segments"})

	assert.Contains(t, out, "Segments")
	assert.Contains(t, out, "Age")
	assert.Contains(t, out, "Purchase Amount (USD)")
	assert.Contains(t, out, "● Cluster 0 (1)")
	assert.Contains(t, out, "▲ Cluster 1 (2)")

	rows := chartRows(t, out)
	require.Len(t, rows, 6)
	assert.True(t, strings.HasPrefix(rows[0], "●"), rows[0])
	assert.True(t, strings.HasSuffix(rows[5], "▲"), rows[5])
}

func TestScatterEmpty(t *testing.T) {
	assert.Contains(t, Scatter(nil, Options{}), "Customer Segments\n(no data)")
}

func TestCustomerPoints(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		{CustomerID: 1, Age: 30, PurchaseAmount: 50},
		{CustomerID: 2, Age: math.NaN(), PurchaseAmount: 20},
		{CustomerID: 3, Age: 45, PurchaseAmount: 80},
	})

	points := CustomerPoints(table, []int{2, 0, 1})
	assert.Equal(t, []Point{
		{X: 30, Y: 50, Cluster: 2},
		{X: 45, Y: 80, Cluster: 1},
	}, points)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "12.5", formatTick(12.5))
	assert.Equal(t, "1.23e+06", formatTick(1234567))
}

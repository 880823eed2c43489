// Package cluster partitions the standardized feature matrix with k-means.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Veraticus/shopper-segments/internal/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidK is returned for a cluster count below one.
var ErrInvalidK = errors.New("cluster count must be at least 1")

// KMeans configures a seeded, multi-restart k-means run.
type KMeans struct {
	Tolerance float64
	Seed      int64
	K         int
	Restarts  int
	MaxIter   int
}

// Result is the best partition found across restarts.
type Result struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// Sizes counts the records assigned to each cluster.
func (r *Result) Sizes() []int {
	return Sizes(r.Labels, len(r.Centroids))
}

// Sizes counts labels in [0, k).
func Sizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, l := range labels {
		if l >= 0 && l < k {
			sizes[l]++
		}
	}
	return sizes
}

// Fit partitions the rows of data. The same seed and data always produce the
// same labels. When data has fewer distinct rows than K some clusters end up
// duplicated or empty, but every row still receives a label.
func (km KMeans) Fit(data *mat.Dense) (*Result, error) {
	if km.K < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, km.K)
	}
	if data == nil || data.IsEmpty() {
		return nil, common.ErrEmptyDataset
	}
	restarts := max(km.Restarts, 1)
	maxIter := max(km.MaxIter, 1)

	n, _ := data.Dims()
	points := make([][]float64, n)
	for i := 0; i < n; i++ {
		points[i] = data.RawRowView(i)
	}

	rng := rand.New(rand.NewSource(km.Seed))

	var best *Result
	for r := 0; r < restarts; r++ {
		centroids := seedPlusPlus(points, km.K, rng)
		res := lloyd(points, centroids, maxIter, km.Tolerance)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}

	return best, nil
}

// seedPlusPlus picks initial centroids with k-means++ weighting.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(n)]))

	distances := make([]float64, n)
	for i := range distances {
		distances[i] = math.MaxFloat64
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		var total float64
		for i, p := range points {
			if d := distanceSq(p, last); d < distances[i] {
				distances[i] = d
			}
			total += distances[i]
		}

		if total == 0 {
			centroids = append(centroids, clone(points[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		chosen := n - 1
		var cumulative float64
		for i, d := range distances {
			cumulative += d
			if cumulative >= target && d > 0 {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clone(points[chosen]))
	}

	return centroids
}

// lloyd refines centroids until the total squared shift drops to tolerance².
func lloyd(points [][]float64, centroids [][]float64, maxIter int, tolerance float64) *Result {
	k := len(centroids)
	dim := len(points[0])
	labels := make([]int, len(points))

	sums := make([][]float64, k)
	for j := range sums {
		sums[j] = make([]float64, dim)
	}
	counts := make([]int, k)
	toleranceSq := tolerance * tolerance

	iterations := 0
	for iterations < maxIter {
		iterations++
		assign(points, centroids, labels)

		for j := 0; j < k; j++ {
			counts[j] = 0
			for d := 0; d < dim; d++ {
				sums[j][d] = 0
			}
		}
		for i, p := range points {
			l := labels[i]
			counts[l]++
			floats.Add(sums[l], p)
		}

		var shift float64
		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			shift += distanceSq(sums[j], centroids[j])
			copy(centroids[j], sums[j])
		}

		if shift <= toleranceSq {
			break
		}
	}

	inertia := assign(points, centroids, labels)

	return &Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// assign labels every point with its nearest centroid, lowest index on ties,
// and returns the inertia of that assignment.
func assign(points [][]float64, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		label := Nearest(centroids, p)
		labels[i] = label
		inertia += distanceSq(p, centroids[label])
	}
	return inertia
}

// Nearest returns the index of the centroid closest to p.
func Nearest(centroids [][]float64, p []float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for j, c := range centroids {
		if d := distanceSq(p, c); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

func distanceSq(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func clone(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}

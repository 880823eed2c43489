package cluster

import (
	"github.com/Veraticus/shopper-segments/internal/common"
	"gonum.org/v1/gonum/mat"
)

// ElbowPoint is the inertia obtained for one candidate cluster count.
type ElbowPoint struct {
	K       int
	Inertia float64
}

// Elbow fits base with K = 1..maxK and reports each inertia. progress, when
// not nil, is called after every candidate.
func Elbow(data *mat.Dense, maxK int, base KMeans, progress func(ElbowPoint)) ([]ElbowPoint, error) {
	points := make([]ElbowPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		km := base
		km.K = k

		res, err := km.Fit(data)
		if err != nil {
			return nil, err
		}

		point := ElbowPoint{K: k, Inertia: res.Inertia}
		points = append(points, point)

		common.LogDebug("Elbow candidate", common.Fields{
			"k":          k,
			"inertia":    res.Inertia,
			"iterations": res.Iterations,
		})
		if progress != nil {
			progress(point)
		}
	}
	return points, nil
}

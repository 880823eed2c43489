package cluster

import (
	"testing"

	"github.com/Veraticus/shopper-segments/internal/features"
	"github.com/Veraticus/shopper-segments/internal/model"
	"github.com/Veraticus/shopper-segments/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func blobs() *mat.Dense {
	return mat.NewDense(9, 2, []float64{
		0, 0,
		0.1, 0.2,
		-0.1, 0.1,
		10, 10,
		10.2, 9.9,
		9.8, 10.1,
		-10, 10,
		-10.1, 9.8,
		-9.9, 10.2,
	})
}

func defaultKMeans(k int) KMeans {
	return KMeans{K: k, Restarts: 10, MaxIter: 300, Tolerance: 1e-4, Seed: 42}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	res, err := defaultKMeans(3).Fit(blobs())
	require.NoError(t, err)
	require.Len(t, res.Labels, 9)

	for _, group := range [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}} {
		for _, i := range group[1:] {
			assert.Equal(t, res.Labels[group[0]], res.Labels[i])
		}
	}
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
	assert.NotEqual(t, res.Labels[3], res.Labels[6])
	assert.NotEqual(t, res.Labels[0], res.Labels[6])
	assert.Equal(t, []int{3, 3, 3}, res.Sizes())
	assert.Less(t, res.Inertia, 1.0)
}

func TestKMeansDeterministic(t *testing.T) {
	table := testutil.NewTransactionBuilder(t).WithRandom(150, 9).Table()
	p, err := features.Build(table)
	require.NoError(t, err)

	first, err := defaultKMeans(4).Fit(p.Scaled)
	require.NoError(t, err)
	second, err := defaultKMeans(4).Fit(p.Scaled)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.InDelta(t, first.Inertia, second.Inertia, 1e-9)

	for _, l := range first.Labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 4)
	}
}

func TestKMeansFewerDistinctPointsThanK(t *testing.T) {
	data := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 1,
		2, 2,
		2, 2,
	})

	res, err := defaultKMeans(4).Fit(data)
	require.NoError(t, err)
	require.Len(t, res.Labels, 4)
	assert.Len(t, res.Centroids, 4)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[2], res.Labels[3])
	assert.InDelta(t, 0, res.Inertia, 1e-12)
}

func TestKMeansSinglePoint(t *testing.T) {
	res, err := defaultKMeans(3).Fit(mat.NewDense(1, 2, []float64{5, 5}))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Labels)
}

func TestKMeansInvalid(t *testing.T) {
	_, err := defaultKMeans(0).Fit(blobs())
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestElbow(t *testing.T) {
	var seen []int
	points, err := Elbow(blobs(), 5, defaultKMeans(1), func(p ElbowPoint) {
		seen = append(seen, p.K)
	})
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)

	// One centroid explains the least; three blobs are captured at k=3.
	assert.Greater(t, points[0].Inertia, points[2].Inertia)
	assert.Greater(t, points[1].Inertia, points[2].Inertia)
	assert.Less(t, points[2].Inertia, 1.0)
}

func TestProfiles(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		{CustomerID: 1, Age: 20, PurchaseAmount: 10, ItemPurchased: "Hat"},
		{CustomerID: 2, Age: 30, PurchaseAmount: 30, ItemPurchased: "Hat"},
		{CustomerID: 3, Age: 60, PurchaseAmount: 90, ItemPurchased: "Jeans"},
		{CustomerID: 4, Age: 50, PurchaseAmount: 70, ItemPurchased: "Blouse"},
	})

	profiles := Profiles(table, []int{0, 0, 1, 1}, 3)
	require.Len(t, profiles, 3)

	assert.Equal(t, 2, profiles[0].Size)
	assert.InDelta(t, 0.5, profiles[0].Share, 1e-12)
	assert.InDelta(t, 25, profiles[0].MeanAge, 1e-12)
	assert.InDelta(t, 20, profiles[0].MeanPurchase, 1e-12)
	assert.Equal(t, "Hat", profiles[0].TopItem)
	assert.Equal(t, 2, profiles[0].TopItemRecords)

	assert.Equal(t, "Blouse", profiles[1].TopItem, "ties resolve alphabetically")
	assert.Equal(t, 0, profiles[2].Size)
}

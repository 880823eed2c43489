package forest

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable builds rows where label 1 means x0 > 0.
func separable(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		x[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if x[i][0] > 0 {
			y[i] = 1
		}
	}
	return x, y
}

func TestRandomForestLearnsSeparableData(t *testing.T) {
	x, y := separable(300, 1)
	rf := NewRandomForest(Options{Trees: 30, Seed: 42, ClassWeight: ClassWeightBalanced, MaxFeatures: 3})
	require.NoError(t, rf.Fit(x, y))
	assert.Equal(t, 30, rf.Len())

	high, err := rf.PredictProba([]float64{2, 0, 0})
	require.NoError(t, err)
	low, err := rf.PredictProba([]float64{-2, 0, 0})
	require.NoError(t, err)

	assert.Greater(t, high, 0.8)
	assert.Less(t, low, 0.2)

	testX, testY := separable(100, 2)
	acc, err := Accuracy(rf, testX, testY)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9)
}

func TestRandomForestProbabilityBounds(t *testing.T) {
	x, y := separable(120, 3)
	// Heavy imbalance: keep only a handful of positives.
	for i := range y {
		if y[i] == 1 && i%7 != 0 {
			y[i] = 0
		}
	}

	rf := NewRandomForest(Options{Trees: 20, Seed: 7, ClassWeight: ClassWeightBalanced})
	require.NoError(t, rf.Fit(x, y))

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		p, err := rf.PredictProba([]float64{rng.NormFloat64() * 3, rng.NormFloat64() * 3, rng.NormFloat64() * 3})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestRandomForestDeterministic(t *testing.T) {
	x, y := separable(150, 4)
	probe := []float64{0.1, -0.3, 0.7}

	a := NewRandomForest(Options{Trees: 15, Seed: 42, ClassWeight: ClassWeightBalanced})
	require.NoError(t, a.Fit(x, y))
	b := NewRandomForest(Options{Trees: 15, Seed: 42, ClassWeight: ClassWeightBalanced})
	require.NoError(t, b.Fit(x, y))

	pa, err := a.PredictProba(probe)
	require.NoError(t, err)
	pb, err := b.PredictProba(probe)
	require.NoError(t, err)
	assert.InDelta(t, pa, pb, 0)
}

func TestRandomForestSingleClass(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}

	rf := NewRandomForest(Options{Trees: 5, Seed: 1, ClassWeight: ClassWeightBalanced})
	require.NoError(t, rf.Fit(x, []int{0, 0, 0}))
	p, err := rf.PredictProba([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 0, p, 0)

	require.NoError(t, rf.Fit(x, []int{1, 1, 1}))
	p, err = rf.PredictProba([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 1, p, 0)
}

func TestRandomForestMaxDepth(t *testing.T) {
	x, y := separable(200, 5)
	rf := NewRandomForest(Options{Trees: 3, Seed: 1, MaxDepth: 2, MaxFeatures: 3})
	require.NoError(t, rf.Fit(x, y))
	for _, tree := range rf.trees {
		assert.LessOrEqual(t, tree.Depth(), 2)
	}
}

func TestRandomForestErrors(t *testing.T) {
	rf := NewRandomForest(Options{})
	_, err := rf.PredictProba([]float64{1})
	assert.ErrorIs(t, err, ErrNotTrained)

	assert.ErrorIs(t, rf.Fit(nil, nil), ErrEmptyTraining)
	assert.ErrorIs(t, rf.Fit([][]float64{{1}, {2}}, []int{1}), ErrDimensionMismatch)
	assert.ErrorIs(t, rf.Fit([][]float64{{1}, {2, 3}}, []int{1, 0}), ErrDimensionMismatch)

	require.NoError(t, rf.Fit([][]float64{{1}, {2}}, []int{1, 0}))
	_, err = rf.PredictProba([]float64{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestClassWeights(t *testing.T) {
	w := ClassWeights([]int{0, 0, 0, 1}, ClassWeightBalanced)
	assert.InDelta(t, 4.0/6.0, w[0], 1e-12)
	assert.InDelta(t, 2.0, w[1], 1e-12)

	w = ClassWeights([]int{0, 0}, ClassWeightBalanced)
	assert.InDelta(t, 1.0, w[0], 1e-12)

	w = ClassWeights([]int{0, 0, 0, 1}, ClassWeightNone)
	assert.Equal(t, [2]float64{1, 1}, w)
}

func TestTrainTestSplit(t *testing.T) {
	train, test := TrainTestSplit(10, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	train2, test2 := TrainTestSplit(10, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	train, test = TrainTestSplit(11, 0.2, 1)
	assert.Len(t, test, 3, "test size rounds up")
	assert.Len(t, train, 8)

	train, test = TrainTestSplit(1, 0.2, 1)
	assert.Len(t, train, 1)
	assert.Empty(t, test)

	train, test = TrainTestSplit(0, 0.2, 1)
	assert.Nil(t, train)
	assert.Nil(t, test)
}

package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Errors returned by Fit and PredictProba.
var (
	ErrNotTrained        = errors.New("forest has not been trained")
	ErrEmptyTraining     = errors.New("no training samples")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// ClassWeight selects how samples are weighted by class.
type ClassWeight int

const (
	// ClassWeightNone gives every sample weight one.
	ClassWeightNone ClassWeight = iota
	// ClassWeightBalanced weights class c by n / (classes * count_c).
	ClassWeightBalanced
)

// Options configures a RandomForest.
type Options struct {
	Seed            int64
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures per split; 0 means floor(sqrt(dim)).
	MaxFeatures int
	ClassWeight ClassWeight
}

// RandomForest averages bootstrap-trained decision trees.
type RandomForest struct {
	trees []*DecisionTree
	opts  Options
	dim   int
}

// NewRandomForest creates an untrained forest.
func NewRandomForest(opts Options) *RandomForest {
	if opts.Trees < 1 {
		opts.Trees = 100
	}
	if opts.MinSamplesSplit < 2 {
		opts.MinSamplesSplit = 2
	}
	return &RandomForest{opts: opts}
}

// Fit trains every tree on a bootstrap sample of x. Labels are 0 or 1. The
// result depends only on the inputs and Options.Seed.
func (rf *RandomForest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return ErrEmptyTraining
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, len(x), len(y))
	}

	dim := len(x[0])
	for i, row := range x {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), dim)
		}
	}

	maxFeatures := rf.opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(int(math.Sqrt(float64(dim))), 1)
	}

	classWeights := ClassWeights(y, rf.opts.ClassWeight)
	rng := rand.New(rand.NewSource(rf.opts.Seed))
	n := len(x)

	rf.dim = dim
	rf.trees = make([]*DecisionTree, rf.opts.Trees)
	counts := make([]int, n)
	for t := range rf.trees {
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < n; i++ {
			counts[rng.Intn(n)]++
		}

		samples := make([]sample, 0, n)
		for i, c := range counts {
			if c == 0 {
				continue
			}
			samples = append(samples, sample{
				row:    x[i],
				label:  y[i],
				weight: float64(c) * classWeights[y[i]],
			})
		}

		tree := NewDecisionTree(rf.opts.MaxDepth, rf.opts.MinSamplesSplit, maxFeatures)
		tree.fit(samples, dim, rng)
		rf.trees[t] = tree
	}

	return nil
}

// PredictProba returns the mean positive-class probability over all trees.
// The result is always within [0, 1].
func (rf *RandomForest) PredictProba(row []float64) (float64, error) {
	if len(rf.trees) == 0 {
		return 0, ErrNotTrained
	}
	if len(row) != rf.dim {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(row), rf.dim)
	}

	var sum float64
	for _, tree := range rf.trees {
		sum += tree.PredictProba(row)
	}
	return sum / float64(len(rf.trees)), nil
}

// Len returns the number of trained trees.
func (rf *RandomForest) Len() int {
	return len(rf.trees)
}

// ClassWeights returns the weight of labels 0 and 1.
func ClassWeights(y []int, mode ClassWeight) [2]float64 {
	weights := [2]float64{1, 1}
	if mode != ClassWeightBalanced {
		return weights
	}

	var counts [2]int
	for _, label := range y {
		counts[label&1]++
	}
	classes := 0
	for _, c := range counts {
		if c > 0 {
			classes++
		}
	}
	for c, count := range counts {
		if count > 0 {
			weights[c] = float64(len(y)) / float64(classes*count)
		}
	}
	return weights
}

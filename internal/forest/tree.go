// Package forest implements a binary random forest classifier with
// class-balanced sample weights.
package forest

import (
	"math/rand"
	"sort"
)

// TreeNode is either a split on Feature <= Threshold or a leaf holding the
// weighted fraction of positive samples that reached it.
type TreeNode struct {
	Left      *TreeNode
	Right     *TreeNode
	Feature   int
	Threshold float64
	Positive  float64
	IsLeaf    bool
}

// DecisionTree is a CART tree grown on weighted samples with Gini impurity.
type DecisionTree struct {
	root            *TreeNode
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

// sample is one training row with its effective weight.
type sample struct {
	row    []float64
	label  int
	weight float64
}

// NewDecisionTree creates a tree. maxDepth 0 means unlimited; maxFeatures is
// the number of candidate features drawn at every split.
func NewDecisionTree(maxDepth, minSamplesSplit, maxFeatures int) *DecisionTree {
	return &DecisionTree{
		maxDepth:        maxDepth,
		minSamplesSplit: max(minSamplesSplit, 2),
		maxFeatures:     max(maxFeatures, 1),
	}
}

func (dt *DecisionTree) fit(samples []sample, dim int, rng *rand.Rand) {
	dt.root = dt.build(samples, dim, 0, rng)
}

func (dt *DecisionTree) build(samples []sample, dim, depth int, rng *rand.Rand) *TreeNode {
	var w0, w1 float64
	for _, s := range samples {
		if s.label == 1 {
			w1 += s.weight
		} else {
			w0 += s.weight
		}
	}

	leaf := &TreeNode{IsLeaf: true}
	if w0+w1 > 0 {
		leaf.Positive = w1 / (w0 + w1)
	}

	if w0 == 0 || w1 == 0 ||
		len(samples) < dt.minSamplesSplit ||
		(dt.maxDepth > 0 && depth >= dt.maxDepth) {
		return leaf
	}

	feature, threshold, ok := dt.bestSplit(samples, dim, w0, w1, rng)
	if !ok {
		return leaf
	}

	var left, right []sample
	for _, s := range samples {
		if s.row[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      dt.build(left, dim, depth+1, rng),
		Right:     dt.build(right, dim, depth+1, rng),
	}
}

// bestSplit scans a random subset of features for the threshold with the
// lowest weighted Gini impurity. Constant features do not count towards the
// subset size.
func (dt *DecisionTree) bestSplit(samples []sample, dim int, w0, w1 float64, rng *rand.Rand) (int, float64, bool) {
	total := w0 + w1
	parent := total * gini(w0, w1)

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := parent

	sorted := make([]sample, len(samples))
	tried := 0
	for _, feature := range rng.Perm(dim) {
		if tried >= dt.maxFeatures {
			break
		}

		copy(sorted, samples)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].row[feature] < sorted[b].row[feature]
		})
		if sorted[0].row[feature] == sorted[len(sorted)-1].row[feature] {
			continue
		}
		tried++

		var l0, l1 float64
		for i := 0; i < len(sorted)-1; i++ {
			if sorted[i].label == 1 {
				l1 += sorted[i].weight
			} else {
				l0 += sorted[i].weight
			}

			cur, next := sorted[i].row[feature], sorted[i+1].row[feature]
			if cur == next {
				continue
			}

			r0, r1 := w0-l0, w1-l1
			impurity := (l0+l1)*gini(l0, l1) + (r0+r1)*gini(r0, r1)
			if impurity < bestImpurity-1e-12 {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = cur + (next-cur)/2
				if bestThreshold >= next {
					bestThreshold = cur
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(w0, w1 float64) float64 {
	total := w0 + w1
	if total == 0 {
		return 0
	}
	p0, p1 := w0/total, w1/total
	return 1 - p0*p0 - p1*p1
}

// PredictProba returns the positive-class fraction of the leaf row lands in.
func (dt *DecisionTree) PredictProba(row []float64) float64 {
	node := dt.root
	for node != nil && !node.IsLeaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Positive
}

// Depth returns the number of levels below the root.
func (dt *DecisionTree) Depth() int {
	return depthOf(dt.root)
}

func depthOf(node *TreeNode) int {
	if node == nil || node.IsLeaf {
		return 0
	}
	return 1 + max(depthOf(node.Left), depthOf(node.Right))
}

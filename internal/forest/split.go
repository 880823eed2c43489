package forest

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles 0..n-1 with seed and holds out ceil(testRatio*n)
// indices for testing. At least one index is kept for training.
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(testRatio * float64(n)))
	nTest = min(max(nTest, 0), n-1)

	return perm[nTest:], perm[:nTest]
}

// Accuracy is the fraction of rows whose thresholded probability matches
// the label. It returns 0 for an empty set.
func Accuracy(rf *RandomForest, rows [][]float64, labels []int) (float64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	correct := 0
	for i, row := range rows {
		p, err := rf.PredictProba(row)
		if err != nil {
			return 0, err
		}
		predicted := 0
		if p >= 0.5 {
			predicted = 1
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows)), nil
}

package likelihood

import (
	"math"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/model"
)

// Filter narrows the table for a group query. Zero-valued optional fields
// do not filter.
type Filter struct {
	// Gender is the encoded gender (0 Female, 1 Male).
	Gender *int
	Item   string
	MinAge int
	MaxAge int
}

// Select returns the positions of records matching f, in table order. The
// age range is inclusive; a record with a missing age never matches.
func (a *Analysis) Select(f Filter) []int {
	item := strings.ToLower(strings.TrimSpace(f.Item))
	encoder, _ := a.pipeline.Encoder(model.ColGender)

	var subset []int
	for i, tx := range a.table.Rows() {
		if math.IsNaN(tx.Age) || tx.Age < float64(f.MinAge) || tx.Age > float64(f.MaxAge) {
			continue
		}
		if f.Gender != nil {
			code, err := encoder.Transform(tx.Gender)
			if err != nil || code != *f.Gender {
				continue
			}
		}
		if item != "" && strings.ToLower(tx.ItemPurchased) != item {
			continue
		}
		subset = append(subset, i)
	}
	return subset
}

// GroupLikelihood weights, for every cluster present in subset, the share
// of that cluster inside the subset by the cluster's share of the whole
// table, and sums the results. The full table yields 1; an empty subset 0.
func (a *Analysis) GroupLikelihood(subset []int) (float64, error) {
	if err := a.requireClusters(); err != nil {
		return 0, err
	}

	sizes := make([]int, a.k)
	for _, l := range a.clusters {
		sizes[l]++
	}

	inSubset := make([]int, a.k)
	for _, row := range subset {
		inSubset[a.clusters[row]]++
	}

	total := float64(a.table.Len())
	var likelihood float64
	for c, count := range inSubset {
		if count == 0 {
			continue
		}
		size := float64(sizes[c])
		likelihood += float64(count) / size * (size / total)
	}
	return likelihood, nil
}

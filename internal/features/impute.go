package features

import (
	"math"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Imputer fills missing values with each column's median.
type Imputer struct {
	medians []float64
}

// FitImputer computes column medians over the present values of m in a
// single pass. A column with no present values gets a median of 0.
func FitImputer(m *mat.Dense) *Imputer {
	rows, cols := m.Dims()
	medians := make([]float64, cols)

	present := make(stats.Float64Data, 0, rows)
	for j := 0; j < cols; j++ {
		present = present[:0]
		for i := 0; i < rows; i++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}
		median, err := stats.Median(present)
		if err == nil {
			medians[j] = median
		}
	}

	return &Imputer{medians: medians}
}

// Medians returns the fitted fill values.
func (imp *Imputer) Medians() []float64 {
	out := make([]float64, len(imp.medians))
	copy(out, imp.medians)
	return out
}

// Apply replaces NaN cells of m in place.
func (imp *Imputer) Apply(m *mat.Dense) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(m.At(i, j)) {
				m.Set(i, j, imp.medians[j])
			}
		}
	}
}

// ApplyRow replaces NaN entries of row in place.
func (imp *Imputer) ApplyRow(row []float64) error {
	if imp == nil {
		return common.ErrNotFitted
	}
	for j, v := range row {
		if math.IsNaN(v) {
			row[j] = imp.medians[j]
		}
	}
	return nil
}

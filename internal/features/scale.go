package features

import (
	"fmt"

	"github.com/Veraticus/shopper-segments/internal/common"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes columns to zero mean and unit variance using the
// population standard deviation. Constant columns are only centered.
type Scaler struct {
	means []float64
	stds  []float64
}

// FitScaler learns per-column parameters from m.
func FitScaler(m *mat.Dense) *Scaler {
	rows, cols := m.Dims()
	s := &Scaler{
		means: make([]float64, cols),
		stds:  make([]float64, cols),
	}

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.means[j] = mean
		s.stds[j] = std
	}

	return s
}

// Transform returns a standardized copy of m.
func (s *Scaler) Transform(m *mat.Dense) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if cols != len(s.means) {
		return nil, fmt.Errorf("scaler fitted on %d columns, got %d", len(s.means), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.means[j]) / s.stds[j]
	}, m)
	return out, nil
}

// TransformRow standardizes a single record with the fitted parameters.
func (s *Scaler) TransformRow(row []float64) ([]float64, error) {
	if s == nil {
		return nil, common.ErrNotFitted
	}
	if len(row) != len(s.means) {
		return nil, fmt.Errorf("scaler fitted on %d columns, got %d", len(s.means), len(row))
	}

	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.means[j]) / s.stds[j]
	}
	return out, nil
}

// Means returns the fitted column means.
func (s *Scaler) Means() []float64 {
	out := make([]float64, len(s.means))
	copy(out, s.means)
	return out
}

// StdDevs returns the fitted column scales.
func (s *Scaler) StdDevs() []float64 {
	out := make([]float64, len(s.stds))
	copy(out, s.stds)
	return out
}

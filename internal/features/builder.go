package features

import (
	"fmt"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/model"
	"gonum.org/v1/gonum/mat"
)

// Derived column names.
const (
	ColLifetimeValue = "Customer Lifetime Value"
	ColSeasonality   = "Seasonality Score"
)

// CategoricalColumns are label encoded, in this order.
var CategoricalColumns = []string{
	model.ColGender,
	model.ColCategory,
	model.ColSeason,
	model.ColSize,
	model.ColSubscriptionStatus,
}

// Columns is the feature matrix layout.
var Columns = []string{
	model.ColAge,
	model.ColPurchaseAmount,
	model.ColReviewRating,
	model.ColPreviousPurchases,
	model.ColGender,
	model.ColCategory,
	model.ColSeason,
	model.ColSize,
	model.ColSubscriptionStatus,
	model.ColFrequency,
	ColLifetimeValue,
	ColSeasonality,
}

// Pipeline holds the fitted transforms and the matrices they produced. The
// matrices have one row per table record, in table order.
type Pipeline struct {
	// Raw is the engineered, imputed and unscaled matrix.
	Raw *mat.Dense
	// Scaled is Raw after standardization.
	Scaled   *mat.Dense
	encoders map[string]*LabelEncoder
	imputer  *Imputer
	scaler   *Scaler
}

// Build fits every transform on table and produces the feature matrices.
func Build(table *model.Table) (*Pipeline, error) {
	if table == nil || table.Len() == 0 {
		return nil, common.ErrEmptyDataset
	}

	encoders := make(map[string]*LabelEncoder, len(CategoricalColumns))
	for _, col := range CategoricalColumns {
		values := make([]string, table.Len())
		for i, tx := range table.Rows() {
			values[i], _ = tx.Categorical(col)
		}
		encoders[col] = FitLabelEncoder(values)
	}

	p := &Pipeline{encoders: encoders}

	raw := mat.NewDense(table.Len(), len(Columns), nil)
	for i, tx := range table.Rows() {
		row, err := p.engineer(tx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		raw.SetRow(i, row)
	}

	p.imputer = FitImputer(raw)
	p.imputer.Apply(raw)
	p.scaler = FitScaler(raw)

	scaled, err := p.scaler.Transform(raw)
	if err != nil {
		return nil, err
	}
	p.Raw = raw
	p.Scaled = scaled

	common.LogDebug("Built feature matrix", common.Fields{
		"rows":    table.Len(),
		"columns": len(Columns),
		"medians": p.imputer.Medians(),
	})

	return p, nil
}

// engineer encodes one record. Missing numeric values stay NaN.
func (p *Pipeline) engineer(tx model.Transaction) ([]float64, error) {
	codes := make([]float64, len(CategoricalColumns))
	for k, col := range CategoricalColumns {
		value, _ := tx.Categorical(col)
		code, err := p.encoders[col].Transform(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", col, err)
		}
		codes[k] = float64(code)
	}

	frequency := FrequencyDays(tx.FrequencyOfPurchases)
	season := codes[2]

	return []float64{
		tx.Age,
		tx.PurchaseAmount,
		tx.ReviewRating,
		tx.PreviousPurchases,
		codes[0],
		codes[1],
		codes[2],
		codes[3],
		codes[4],
		frequency,
		tx.PurchaseAmount * tx.PreviousPurchases,
		season * frequency,
	}, nil
}

// TransformRow runs one record through the already fitted encoders, imputer
// and scaler. Nothing is refit.
func (p *Pipeline) TransformRow(tx model.Transaction) ([]float64, error) {
	row, err := p.engineer(tx)
	if err != nil {
		return nil, err
	}
	if err := p.imputer.ApplyRow(row); err != nil {
		return nil, err
	}
	return p.scaler.TransformRow(row)
}

// Encoder returns the fitted encoder of a categorical column.
func (p *Pipeline) Encoder(column string) (*LabelEncoder, bool) {
	e, ok := p.encoders[column]
	return e, ok
}

// Rows returns the number of records in the matrices.
func (p *Pipeline) Rows() int {
	r, _ := p.Scaled.Dims()
	return r
}

// ScaledRow returns a copy of the standardized row i.
func (p *Pipeline) ScaledRow(i int) []float64 {
	return mat.Row(nil, i, p.Scaled)
}

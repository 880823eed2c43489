// Package storage reads the transaction table from its tabular source.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// rowDecoder turns raw cells into transactions using a header index.
type rowDecoder struct {
	index map[string]int
}

// newRowDecoder checks the header against model.RequiredColumns. Any absent
// column is a schema error.
func newRowDecoder(header []string) (*rowDecoder, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}

	return &rowDecoder{index: index}, nil
}

func (d *rowDecoder) cell(cells []string, column string) string {
	i := d.index[column]
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func (d *rowDecoder) number(cells []string, column string) float64 {
	raw := d.cell(cells, column)
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// decode builds one transaction. line is used only for error messages.
func (d *rowDecoder) decode(cells []string, line int) (model.Transaction, error) {
	rawID := d.cell(cells, model.ColCustomerID)
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: line %d: customer id %q", common.ErrMalformedRow, line, rawID)
	}

	return model.Transaction{
		CustomerID:           id,
		Age:                  d.number(cells, model.ColAge),
		Gender:               d.cell(cells, model.ColGender),
		ItemPurchased:        d.cell(cells, model.ColItemPurchased),
		Category:             d.cell(cells, model.ColCategory),
		Season:               d.cell(cells, model.ColSeason),
		Size:                 d.cell(cells, model.ColSize),
		SubscriptionStatus:   d.cell(cells, model.ColSubscriptionStatus),
		PurchaseAmount:       d.number(cells, model.ColPurchaseAmount),
		ReviewRating:         d.number(cells, model.ColReviewRating),
		PreviousPurchases:    d.number(cells, model.ColPreviousPurchases),
		FrequencyOfPurchases: d.cell(cells, model.ColFrequency),
	}, nil
}

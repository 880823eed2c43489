package storage

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/config"
	"github.com/Veraticus/shopper-segments/internal/model"
	"github.com/Veraticus/shopper-segments/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Customer ID,Age,Gender,Item Purchased,Category,Purchase Amount (USD),Location,Size,Color,Season,Review Rating,Subscription Status,Previous Purchases,Frequency of Purchases
1,55,Male,Blouse,Clothing,53,Kentucky,L,Gray,Winter,3.1,Yes,14,Fortnightly
2,19,Male,Sweater,Clothing,64,Maine,L,Maroon,Winter,,Yes,2,Biweekly
3,50,Female,Jeans,Clothing,73,Massachusetts,S,Maroon,Spring,3.1,No,23,Weekly
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, 1, first.CustomerID)
	assert.InDelta(t, 55, first.Age, 1e-9)
	assert.Equal(t, "Blouse", first.ItemPurchased)
	assert.Equal(t, "Winter", first.Season)
	assert.InDelta(t, 53, first.PurchaseAmount, 1e-9)
	assert.Equal(t, "Fortnightly", first.FrequencyOfPurchases)

	assert.True(t, math.IsNaN(rows[1].ReviewRating), "empty rating should be missing")
	assert.Equal(t, "Biweekly", rows[1].FrequencyOfPurchases)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	input := "Customer ID,Age,Gender\n1,20,Male\n"

	_, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Contains(t, err.Error(), model.ColItemPurchased)
	assert.Contains(t, err.Error(), model.ColFrequency)
}

func TestReadCSV_MalformedCustomerID(t *testing.T) {
	input := strings.Replace(sampleCSV, "\n2,19,", "\nabc,19,", 1)

	_, err := ReadCSV(context.Background(), strings.NewReader(input))
	assert.ErrorIs(t, err, common.ErrMalformedRow)
}

func TestCSVSource_Load(t *testing.T) {
	rows := testutil.NewTransactionBuilder(t).WithRandom(25, 3).Build()
	path := testutil.WriteCSV(t, rows)

	src, err := NewCSVSource(path)
	require.NoError(t, err)

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, table.Len())
	assert.Equal(t, rows[10], table.Row(10))
}

func TestCSVSource_Errors(t *testing.T) {
	_, err := NewCSVSource("  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	src, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.Error(t, err)

	empty := testutil.WriteCSV(t, nil)
	src, err = NewCSVSource(empty)
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrEmptyDataset)
}

func TestOpen(t *testing.T) {
	src, err := Open(config.DataConfig{Path: "x.csv", Source: config.SourceCSV})
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	_, err = Open(config.DataConfig{Path: "x", Source: "parquet"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

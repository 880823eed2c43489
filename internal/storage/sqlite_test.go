package storage

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/config"
	"github.com/Veraticus/shopper-segments/internal/model"
	"github.com/Veraticus/shopper-segments/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSource_Load(t *testing.T) {
	rows := testutil.NewTransactionBuilder(t).
		WithRandom(40, 11).
		With(model.Transaction{
			CustomerID:           500,
			Age:                  33,
			Gender:               "Female",
			ItemPurchased:        "Blouse",
			Category:             "Clothing",
			Season:               "Fall",
			Size:                 "M",
			SubscriptionStatus:   "No",
			PurchaseAmount:       41.5,
			ReviewRating:         math.NaN(),
			PreviousPurchases:    9,
			FrequencyOfPurchases: "Monthly",
		}).
		Build()
	path := testutil.WriteSQLite(t, rows, "transactions")

	src, err := Open(config.DataConfig{Path: path, Source: config.SourceSQLite, Table: "transactions"})
	require.NoError(t, err)
	defer func() { _ = src.(*SQLiteSource).Close() }()

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 41, table.Len())

	last := table.Row(40)
	assert.Equal(t, 500, last.CustomerID)
	assert.InDelta(t, 33, last.Age, 1e-9)
	assert.InDelta(t, 41.5, last.PurchaseAmount, 1e-9)
	assert.True(t, math.IsNaN(last.ReviewRating))
	assert.Equal(t, "Monthly", last.FrequencyOfPurchases)

	assert.Equal(t, rows[0].ItemPurchased, table.Row(0).ItemPurchased)
}

func TestSQLiteSource_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE transactions ("Customer ID" INTEGER, "Age" INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src, err := NewSQLiteSource(path, "transactions")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrMissingColumn)
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	rows := testutil.NewTransactionBuilder(t).WithRandom(3, 1).Build()
	path := testutil.WriteSQLite(t, rows, "transactions")

	src, err := NewSQLiteSource(path, "purchases")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	_, err = src.Load(context.Background())
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Purchase Amount (USD)"`, quoteIdent(model.ColPurchaseAmount))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

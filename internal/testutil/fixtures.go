// Package testutil provides fixtures for the segmentation pipeline tests.
// It offers a fluent transaction builder and helpers that materialize the
// rows as CSV files or SQLite tables.
package testutil

import (
	"math/rand"
	"testing"

	"github.com/Veraticus/shopper-segments/internal/model"
)

// Value pools used by the random generator.
var (
	Items       = []string{"Blouse", "Sweater", "Jeans", "Sandals", "Sneakers", "Hat"}
	Genders     = []string{"Male", "Female"}
	Categories  = []string{"Clothing", "Footwear", "Accessories", "Outerwear"}
	Seasons     = []string{"Winter", "Spring", "Summer", "Fall"}
	Sizes       = []string{"S", "M", "L", "XL"}
	Frequencies = []string{"Weekly", "Fortnightly", "Monthly", "Annually", "Quarterly", "Bi-Weekly", "Daily"}
)

// TransactionBuilder assembles deterministic transaction fixtures.
//
// Example:
//
//	rows := testutil.NewTransactionBuilder(t).
//		WithRandom(200, 7).
//		With(model.Transaction{CustomerID: 999, ItemPurchased: "Blouse"}).
//		Build()
type TransactionBuilder struct {
	t      *testing.T
	rows   []model.Transaction
	nextID int
}

// NewTransactionBuilder creates an empty builder.
func NewTransactionBuilder(t *testing.T) *TransactionBuilder {
	t.Helper()
	return &TransactionBuilder{t: t, nextID: 1}
}

// With appends a fixed row. A zero CustomerID is replaced by the next free id.
func (b *TransactionBuilder) With(tx model.Transaction) *TransactionBuilder {
	if tx.CustomerID == 0 {
		tx.CustomerID = b.nextID
	}
	if tx.CustomerID >= b.nextID {
		b.nextID = tx.CustomerID + 1
	}
	b.rows = append(b.rows, tx)
	return b
}

// WithRandom appends n varied rows drawn from a seeded generator.
func (b *TransactionBuilder) WithRandom(n int, seed int64) *TransactionBuilder {
	rng := rand.New(rand.NewSource(seed))
	pick := func(pool []string) string { return pool[rng.Intn(len(pool))] }

	for i := 0; i < n; i++ {
		age := float64(18 + rng.Intn(53))
		item := pick(Items)
		// Younger shoppers lean towards footwear so the classifier has signal.
		if age < 30 && rng.Float64() < 0.5 {
			item = "Sneakers"
		}

		b.With(model.Transaction{
			Age:                  age,
			Gender:               pick(Genders),
			ItemPurchased:        item,
			Category:             pick(Categories),
			Season:               pick(Seasons),
			Size:                 pick(Sizes),
			SubscriptionStatus:   pick([]string{"Yes", "No"}),
			PurchaseAmount:       float64(20 + rng.Intn(81)),
			ReviewRating:         float64(25+rng.Intn(26)) / 10,
			PreviousPurchases:    float64(1 + rng.Intn(50)),
			FrequencyOfPurchases: pick(Frequencies),
		})
	}
	return b
}

// Build returns a copy of the rows.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.rows))
	copy(out, b.rows)
	return out
}

// Table returns the rows as an indexed table.
func (b *TransactionBuilder) Table() *model.Table {
	b.t.Helper()
	if len(b.rows) == 0 {
		b.t.Fatal("transaction builder has no rows")
	}
	return model.NewTable(b.Build())
}

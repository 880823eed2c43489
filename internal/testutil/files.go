package testutil

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Veraticus/shopper-segments/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Cells renders a transaction in model.RequiredColumns order.
func Cells(tx model.Transaction) []string {
	return []string{
		strconv.Itoa(tx.CustomerID),
		formatNumber(tx.Age),
		tx.Gender,
		tx.ItemPurchased,
		tx.Category,
		tx.Season,
		tx.Size,
		tx.SubscriptionStatus,
		formatNumber(tx.PurchaseAmount),
		formatNumber(tx.ReviewRating),
		formatNumber(tx.PreviousPurchases),
		tx.FrequencyOfPurchases,
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes rows under a temporary directory and returns the path.
func WriteCSV(t *testing.T, rows []model.Transaction) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shopping_trends.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv fixture: %v", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(model.RequiredColumns); err != nil {
		t.Fatalf("failed to write csv header: %v", err)
	}
	for _, tx := range rows {
		if err := w.Write(Cells(tx)); err != nil {
			t.Fatalf("failed to write csv row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush csv fixture: %v", err)
	}

	return path
}

// WriteSQLite stores rows in table inside a temporary database file and
// returns its path. Columns are typed the way a CSV import would type them.
func WriteSQLite(t *testing.T, rows []model.Transaction, table string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shopping.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open sqlite fixture: %v", err)
	}
	defer func() { _ = db.Close() }()

	types := map[string]string{
		model.ColCustomerID:        "INTEGER",
		model.ColAge:               "INTEGER",
		model.ColPurchaseAmount:    "REAL",
		model.ColReviewRating:      "REAL",
		model.ColPreviousPurchases: "INTEGER",
	}

	defs := make([]string, len(model.RequiredColumns))
	marks := make([]string, len(model.RequiredColumns))
	for i, col := range model.RequiredColumns {
		colType, ok := types[col]
		if !ok {
			colType = "TEXT"
		}
		defs[i] = fmt.Sprintf("%q %s", col, colType)
		marks[i] = "?"
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))); err != nil {
		t.Fatalf("failed to create fixture table: %v", err)
	}

	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, strings.Join(marks, ", "))
	for _, tx := range rows {
		cells := Cells(tx)
		args := make([]any, len(cells))
		for i, c := range cells {
			if c == "" {
				args[i] = nil
			} else {
				args[i] = c
			}
		}
		if _, err := db.Exec(insert, args...); err != nil {
			t.Fatalf("failed to insert fixture row: %v", err)
		}
	}

	return path
}

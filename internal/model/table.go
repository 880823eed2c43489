package model

import "strings"

// Table is the ordered, immutable set of transactions loaded for one run.
// Row positions are the join key for every derived column.
type Table struct {
	rows      []Transaction
	customers map[int]int
	catalog   []string
}

// NewTable indexes rows. The slice is owned by the table afterwards.
func NewTable(rows []Transaction) *Table {
	t := &Table{
		rows:      rows,
		customers: make(map[int]int, len(rows)),
	}

	seen := make(map[string]bool)
	for i, row := range rows {
		if _, ok := t.customers[row.CustomerID]; !ok {
			t.customers[row.CustomerID] = i
		}
		key := strings.ToLower(strings.TrimSpace(row.ItemPurchased))
		if !seen[key] {
			seen[key] = true
			t.catalog = append(t.catalog, row.ItemPurchased)
		}
	}

	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the record at position i.
func (t *Table) Row(i int) Transaction {
	return t.rows[i]
}

// Rows returns the records in load order. Callers must not modify them.
func (t *Table) Rows() []Transaction {
	return t.rows
}

// Catalog returns the distinct items in first-seen order.
func (t *Table) Catalog() []string {
	out := make([]string, len(t.catalog))
	copy(out, t.catalog)
	return out
}

// CanonicalItem maps a user-typed item onto its catalog spelling.
func (t *Table) CanonicalItem(item string) (string, bool) {
	item = strings.TrimSpace(item)
	for _, known := range t.catalog {
		if strings.EqualFold(known, item) {
			return known, true
		}
	}
	return "", false
}

// IndexOfCustomer returns the position of the customer's first record.
func (t *Table) IndexOfCustomer(id int) (int, bool) {
	i, ok := t.customers[id]
	return i, ok
}

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableCatalogAndLookup(t *testing.T) {
	table := NewTable([]Transaction{
		{CustomerID: 1, ItemPurchased: "Blouse"},
		{CustomerID: 2, ItemPurchased: "Sweater"},
		{CustomerID: 1, ItemPurchased: "blouse"},
		{CustomerID: 3, ItemPurchased: "Jeans"},
	})

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"Blouse", "Sweater", "Jeans"}, table.Catalog())

	idx, ok := table.IndexOfCustomer(1)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = table.IndexOfCustomer(99)
	assert.False(t, ok)

	item, ok := table.CanonicalItem("  JEANS ")
	assert.True(t, ok)
	assert.Equal(t, "Jeans", item)

	_, ok = table.CanonicalItem("Spaceship")
	assert.False(t, ok)
}

func TestTransactionBought(t *testing.T) {
	tx := Transaction{ItemPurchased: "Blouse"}
	assert.True(t, tx.Bought("blouse"))
	assert.True(t, tx.Bought(" BLOUSE"))
	assert.False(t, tx.Bought("Blouses"))
}

func TestTransactionCategorical(t *testing.T) {
	tx := Transaction{Gender: "Female", Season: "Winter", Size: "M", Category: "Clothing", SubscriptionStatus: "Yes"}

	v, ok := tx.Categorical(ColSeason)
	assert.True(t, ok)
	assert.Equal(t, "Winter", v)

	_, ok = tx.Categorical(ColAge)
	assert.False(t, ok)

	assert.True(t, Missing(math.NaN()))
	assert.False(t, Missing(0))
}

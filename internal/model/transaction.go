// Package model holds the retail transaction records shared by every stage.
package model

import (
	"math"
	"strings"
)

// Column headers of the input table.
const (
	ColCustomerID         = "Customer ID"
	ColAge                = "Age"
	ColGender             = "Gender"
	ColItemPurchased      = "Item Purchased"
	ColCategory           = "Category"
	ColSeason             = "Season"
	ColSize               = "Size"
	ColSubscriptionStatus = "Subscription Status"
	ColPurchaseAmount     = "Purchase Amount (USD)"
	ColReviewRating       = "Review Rating"
	ColPreviousPurchases  = "Previous Purchases"
	ColFrequency          = "Frequency of Purchases"
)

// RequiredColumns lists every column a source must provide.
var RequiredColumns = []string{
	ColCustomerID,
	ColAge,
	ColGender,
	ColItemPurchased,
	ColCategory,
	ColSeason,
	ColSize,
	ColSubscriptionStatus,
	ColPurchaseAmount,
	ColReviewRating,
	ColPreviousPurchases,
	ColFrequency,
}

// Transaction represents a single purchase event. Numeric fields hold NaN
// when the source cell was empty or unparsable.
type Transaction struct {
	ItemPurchased        string
	Gender               string
	Category             string
	Season               string
	Size                 string
	SubscriptionStatus   string
	FrequencyOfPurchases string
	Age                  float64
	PurchaseAmount       float64
	ReviewRating         float64
	PreviousPurchases    float64
	CustomerID           int
}

// Categorical returns the raw value of a label-encoded column.
func (t Transaction) Categorical(column string) (string, bool) {
	switch column {
	case ColGender:
		return t.Gender, true
	case ColCategory:
		return t.Category, true
	case ColSeason:
		return t.Season, true
	case ColSize:
		return t.Size, true
	case ColSubscriptionStatus:
		return t.SubscriptionStatus, true
	default:
		return "", false
	}
}

// Bought reports whether the record's item matches item, ignoring case.
func (t Transaction) Bought(item string) bool {
	return strings.EqualFold(strings.TrimSpace(t.ItemPurchased), strings.TrimSpace(item))
}

// Missing reports whether v marks an absent numeric value.
func Missing(v float64) bool {
	return math.IsNaN(v)
}

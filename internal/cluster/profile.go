package cluster

import (
	"sort"

	"github.com/Veraticus/shopper-segments/internal/model"
)

// Profile summarizes one cluster in terms of the original records.
type Profile struct {
	TopItem        string
	Share          float64
	MeanAge        float64
	MeanPurchase   float64
	ID             int
	Size           int
	TopItemRecords int
}

// Profiles describes every cluster in [0, k). labels must be aligned with
// the table rows.
func Profiles(table *model.Table, labels []int, k int) []Profile {
	profiles := make([]Profile, k)
	ages := make([]int, k)
	amounts := make([]int, k)
	items := make([]map[string]int, k)
	for j := range profiles {
		profiles[j].ID = j
		items[j] = make(map[string]int)
	}

	for i, tx := range table.Rows() {
		p := &profiles[labels[i]]
		p.Size++
		if !model.Missing(tx.Age) {
			p.MeanAge += tx.Age
			ages[labels[i]]++
		}
		if !model.Missing(tx.PurchaseAmount) {
			p.MeanPurchase += tx.PurchaseAmount
			amounts[labels[i]]++
		}
		items[labels[i]][tx.ItemPurchased]++
	}

	total := float64(table.Len())
	for j := range profiles {
		p := &profiles[j]
		if p.Size == 0 {
			continue
		}
		p.Share = float64(p.Size) / total
		if ages[j] > 0 {
			p.MeanAge /= float64(ages[j])
		}
		if amounts[j] > 0 {
			p.MeanPurchase /= float64(amounts[j])
		}
		p.TopItem, p.TopItemRecords = topItem(items[j])
	}

	return profiles
}

func topItem(counts map[string]int) (string, int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestCount := "", 0
	for _, name := range names {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount
}

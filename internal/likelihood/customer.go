package likelihood

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/forest"
)

// CustomerLikelihood returns the probability that the customer purchases
// item. A fresh forest is trained for every call unless caching is enabled.
func (a *Analysis) CustomerLikelihood(ctx context.Context, customerID int, item string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := a.requireClusters(); err != nil {
		return 0, err
	}

	row, ok := a.table.IndexOfCustomer(customerID)
	if !ok {
		return 0, fmt.Errorf("%w: %d", common.ErrCustomerNotFound, customerID)
	}
	canonical, ok := a.table.CanonicalItem(item)
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownItem, item)
	}

	rf, err := a.classifier(canonical)
	if err != nil {
		return 0, err
	}

	scaled, err := a.pipeline.TransformRow(a.table.Row(row))
	if err != nil {
		return 0, fmt.Errorf("failed to transform customer %d: %w", customerID, err)
	}

	p, err := rf.PredictProba(append(scaled, float64(a.clusters[row])))
	if err != nil {
		return 0, fmt.Errorf("failed to score customer %d: %w", customerID, err)
	}
	return p, nil
}

// BestItem scores every catalog item for the customer and returns the most
// likely one. The first item wins ties. progress, when not nil, is called
// after each item.
func (a *Analysis) BestItem(ctx context.Context, customerID int, progress func(item string, p float64)) (string, float64, error) {
	if err := a.requireClusters(); err != nil {
		return "", 0, err
	}
	if !a.HasCustomer(customerID) {
		return "", 0, fmt.Errorf("%w: %d", common.ErrCustomerNotFound, customerID)
	}

	bestItem, bestP := "", -1.0
	for _, item := range a.Catalog() {
		p, err := a.CustomerLikelihood(ctx, customerID, item)
		if err != nil {
			return "", 0, err
		}
		if p > bestP {
			bestItem, bestP = item, p
		}
		if progress != nil {
			progress(item, p)
		}
	}
	return bestItem, bestP, nil
}

// classifier trains, or fetches from cache, the forest for item.
func (a *Analysis) classifier(item string) (*forest.RandomForest, error) {
	key := cacheKey{item: strings.ToLower(item), version: a.version}
	if a.opts.Cache {
		if rf, ok := a.cache[key]; ok {
			common.LogDebug("Reusing trained forest", common.Fields{"item": item})
			return rf, nil
		}
	}

	target := a.PurchaseTarget(item)
	train, test := forest.TrainTestSplit(a.table.Len(), a.opts.TestRatio, a.opts.Forest.Seed)

	rf := forest.NewRandomForest(a.opts.Forest)
	trainX, trainY := a.trainingRows(train, target)
	if err := rf.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("failed to train classifier for %s: %w", item, err)
	}

	testX, testY := a.trainingRows(test, target)
	if acc, err := forest.Accuracy(rf, testX, testY); err == nil {
		common.LogDebug("Trained purchase classifier", common.Fields{
			"item":             item,
			"train_rows":       len(train),
			"test_rows":        len(test),
			"holdout_accuracy": acc,
		})
	}

	if a.opts.Cache {
		a.cache[key] = rf
	}
	return rf, nil
}

// trainingRows returns scaled features plus cluster label for rows.
func (a *Analysis) trainingRows(rows []int, target []int) ([][]float64, []int) {
	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		x[i] = append(a.pipeline.ScaledRow(r), float64(a.clusters[r]))
		y[i] = target[r]
	}
	return x, y
}

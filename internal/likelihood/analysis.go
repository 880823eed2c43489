// Package likelihood estimates purchase likelihoods over a clustered
// transaction table.
//
// Two notions share the name. CustomerLikelihood trains a random forest on
// the standardized features plus cluster label and returns the predicted
// probability that one customer buys one item. GroupLikelihood is an
// empirical, cluster-weighted share of the population that falls inside a
// filtered subset; no model is involved.
package likelihood

import (
	"context"
	"fmt"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/features"
	"github.com/Veraticus/shopper-segments/internal/forest"
	"github.com/Veraticus/shopper-segments/internal/model"
)

// Options configures the per-query classifier.
type Options struct {
	Forest    forest.Options
	TestRatio float64
	// Cache keeps trained forests per (item, clustering version). Outputs
	// are unchanged; only repeat queries get faster.
	Cache bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Forest: forest.Options{
			Seed:            42,
			Trees:           100,
			MinSamplesSplit: 2,
			ClassWeight:     forest.ClassWeightBalanced,
		},
		TestRatio: 0.2,
	}
}

// Analysis is the data context shared by every query of a run. The table is
// never modified; cluster labels live alongside it, keyed by row position.
type Analysis struct {
	table    *model.Table
	pipeline *features.Pipeline
	cache    map[cacheKey]*forest.RandomForest
	clusters []int
	opts     Options
	k        int
	version  uint64
}

type cacheKey struct {
	item    string
	version uint64
}

// NewAnalysis binds a table to the feature pipeline built from it.
func NewAnalysis(table *model.Table, pipeline *features.Pipeline, opts Options) (*Analysis, error) {
	if table == nil || pipeline == nil {
		return nil, common.ErrEmptyDataset
	}
	if pipeline.Rows() != table.Len() {
		return nil, fmt.Errorf("feature matrix has %d rows, table has %d", pipeline.Rows(), table.Len())
	}
	if opts.TestRatio <= 0 || opts.TestRatio >= 1 {
		opts.TestRatio = 0.2
	}

	return &Analysis{
		table:    table,
		pipeline: pipeline,
		opts:     opts,
		cache:    make(map[cacheKey]*forest.RandomForest),
	}, nil
}

// Cluster partitions the scaled matrix and records one label per row.
func (a *Analysis) Cluster(ctx context.Context, km cluster.KMeans) (*cluster.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := km.Fit(a.pipeline.Scaled)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster records: %w", err)
	}
	if err := a.SetClusters(res.Labels, km.K); err != nil {
		return nil, err
	}

	common.LogInfo("Assigned clusters", common.Fields{
		"k":       km.K,
		"inertia": res.Inertia,
		"sizes":   res.Sizes(),
	})
	return res, nil
}

// SetClusters installs labels computed elsewhere.
func (a *Analysis) SetClusters(labels []int, k int) error {
	if len(labels) != a.table.Len() {
		return fmt.Errorf("got %d cluster labels for %d records", len(labels), a.table.Len())
	}
	for i, l := range labels {
		if l < 0 || l >= k {
			return fmt.Errorf("cluster label %d of row %d outside [0, %d)", l, i, k)
		}
	}

	a.clusters = append([]int(nil), labels...)
	a.k = k
	a.version++
	return nil
}

// Clusters returns the per-row labels and whether clustering has run.
func (a *Analysis) Clusters() ([]int, bool) {
	if a.clusters == nil {
		return nil, false
	}
	return append([]int(nil), a.clusters...), true
}

// K returns the committed cluster count, 0 before clustering.
func (a *Analysis) K() int {
	return a.k
}

// Table returns the underlying records.
func (a *Analysis) Table() *model.Table {
	return a.table
}

// Catalog returns the distinct items in first-seen order.
func (a *Analysis) Catalog() []string {
	return a.table.Catalog()
}

// IsKnownItem reports whether item is in the catalog, ignoring case.
func (a *Analysis) IsKnownItem(item string) bool {
	_, ok := a.table.CanonicalItem(item)
	return ok
}

// HasCustomer reports whether any record belongs to the customer.
func (a *Analysis) HasCustomer(id int) bool {
	_, ok := a.table.IndexOfCustomer(id)
	return ok
}

// PurchaseTarget marks the rows whose item matches item, ignoring case.
func (a *Analysis) PurchaseTarget(item string) []int {
	target := make([]int, a.table.Len())
	for i, tx := range a.table.Rows() {
		if tx.Bought(item) {
			target[i] = 1
		}
	}
	return target
}

func (a *Analysis) requireClusters() error {
	if a.clusters == nil {
		return common.ErrClusteringNotPerformed
	}
	return nil
}

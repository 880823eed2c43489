package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/config"
	"github.com/Veraticus/shopper-segments/internal/features"
	"github.com/Veraticus/shopper-segments/internal/forest"
	"github.com/Veraticus/shopper-segments/internal/likelihood"
	"github.com/Veraticus/shopper-segments/internal/model"
	"github.com/Veraticus/shopper-segments/internal/storage"
)

// bindFlags returns a PreRunE that binds command flags to config keys. Binding
// happens per run because several commands share a key.
func bindFlags(keys map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		for key, flag := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
		return nil
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

// loadFeatures reads the table and fits the feature pipeline on it.
func loadFeatures(ctx context.Context, cfg config.Config) (*model.Table, *features.Pipeline, error) {
	src, err := storage.Open(cfg.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.Data.Path, err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				slog.Warn("Failed to close data source", "error", cerr)
			}
		}()
	}

	table, err := src.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	pipeline, err := features.Build(table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build features: %w", err)
	}
	return table, pipeline, nil
}

func kmeans(cfg config.AnalysisConfig, k int) cluster.KMeans {
	return cluster.KMeans{
		K:         k,
		Seed:      cfg.Seed,
		Restarts:  cfg.Restarts,
		MaxIter:   cfg.MaxIterations,
		Tolerance: cfg.Tolerance,
	}
}

func likelihoodOptions(cfg config.Config) likelihood.Options {
	return likelihood.Options{
		Forest: forest.Options{
			Seed:            cfg.Analysis.Seed,
			Trees:           cfg.Forest.Trees,
			MaxDepth:        cfg.Forest.MaxDepth,
			MinSamplesSplit: cfg.Forest.MinSamplesSplit,
			ClassWeight:     forest.ClassWeightBalanced,
		},
		TestRatio: cfg.Forest.TestRatio,
		Cache:     cfg.Forest.Cache,
	}
}

// sweep runs the elbow search with a progress bar on w.
func sweep(ctx context.Context, w io.Writer, pipeline *features.Pipeline, cfg config.AnalysisConfig) ([]cluster.ElbowPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(cfg.MaxClusters,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Sweeping cluster counts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)

	points, err := cluster.Elbow(pipeline.Scaled, cfg.MaxClusters, kmeans(cfg, 1), func(cluster.ElbowPoint) {
		_ = bar.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("elbow sweep failed: %w", err)
	}
	return points, nil
}

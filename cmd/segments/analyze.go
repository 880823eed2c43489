package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shopper-segments/internal/cli"
	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/config"
	"github.com/Veraticus/shopper-segments/internal/likelihood"
	"github.com/Veraticus/shopper-segments/internal/plot"
	"github.com/Veraticus/shopper-segments/internal/tui"
	"github.com/Veraticus/shopper-segments/internal/tui/themes"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Cluster customers and answer one purchase-likelihood question",
		Long: `Run the full analysis and then ask one question.

The command loads the transaction table, builds the feature matrix, sweeps
k-means over 1..max_clusters to draw the elbow curve, commits to a fixed
cluster count and shows the plots. It then offers three questions:

  1. How likely is a group (age range, optional gender and item) to buy?
  2. Which item is a given customer most likely to buy?
  3. How likely is a given customer to buy a given item?

Options 2 and 3 train a random forest per item, which can take a while on
large tables. Use --cache-models to reuse forests within a run.

Examples:
  # Interactive plots, then the question menu
  segments analyze --data data/shopping_trends.csv

  # Print the plots instead of opening the viewer
  segments analyze --plots inline

  # Read from a SQLite table
  SEGMENTS_DATA_SOURCE=sqlite segments analyze --data shop.db`,
		PreRunE: bindFlags(map[string]string{
			"analysis.clusters": "clusters",
			"plots.mode":        "plots",
			"forest.cache":      "cache-models",
		}),
		RunE: runAnalyze,
	}

	cmd.Flags().Int("clusters", 4, "Number of clusters to commit to")
	cmd.Flags().String("plots", config.PlotsInteractive, "How to show plots (interactive, inline, off)")
	cmd.Flags().Bool("cache-models", false, "Reuse trained forests for repeated items")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interruptHandler.HandleInterrupts(ctx)

	err := analyze(ctx, cmd.InOrStdin(), out, interruptHandler)
	if err != nil && interruptHandler.WasInterrupted() {
		return nil
	}
	return err
}

func analyze(ctx context.Context, in io.Reader, out io.Writer, interrupts *cli.InterruptHandler) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table, pipeline, err := loadFeatures(ctx, cfg)
	if err != nil {
		return err
	}

	points, err := sweep(ctx, out, pipeline, cfg.Analysis)
	if err != nil {
		return err
	}

	analysis, err := likelihood.NewAnalysis(table, pipeline, likelihoodOptions(cfg))
	if err != nil {
		return err
	}
	res, err := analysis.Cluster(ctx, kmeans(cfg.Analysis, cfg.Analysis.Clusters))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Grouped %d transactions into %d clusters (inertia %.2f)", table.Len(), cfg.Analysis.Clusters, res.Inertia)))

	if err := showPlots(ctx, out, cfg.Plots, points, plot.CustomerPoints(table, res.Labels)); err != nil {
		return err
	}

	return cli.NewDispatcher(in, out, analysis).
		WithInterruptHandler(interrupts).
		Run(ctx)
}

func showPlots(ctx context.Context, out io.Writer, cfg config.PlotsConfig, elbow []cluster.ElbowPoint, points []plot.Point) error {
	theme := themes.GetTheme(cfg.Theme)

	switch cfg.Mode {
	case config.PlotsOff:
		return nil
	case config.PlotsInline:
		opts := plot.Options{Palette: theme.Clusters, Width: 60, Height: 15}
		_, _ = fmt.Fprintln(out, plot.Elbow(elbow, opts))
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, plot.Scatter(points, opts))
		return nil
	default:
		err := tui.ShowPlots(ctx, elbow, points, tui.WithTheme(theme))
		if err != nil && !errors.Is(err, context.Canceled) {
			// The query menu still works without the viewer.
			common.LogError(err, "Plot viewer failed", common.Fields{"mode": cfg.Mode})
			return nil
		}
		return err
	}
}

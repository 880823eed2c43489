package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shopper-segments/internal/cli"
	"github.com/Veraticus/shopper-segments/internal/plot"
	"github.com/Veraticus/shopper-segments/internal/tui/themes"
)

func elbowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elbow",
		Short: "Print the k-means inertia for every candidate cluster count",
		Long: `Sweep k-means over 1..analysis.max_clusters and print the inertia of each
candidate together with a text elbow chart. No question is asked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, pipeline, err := loadFeatures(ctx, cfg)
			if err != nil {
				return err
			}

			points, err := sweep(ctx, out, pipeline, cfg.Analysis)
			if err != nil {
				return err
			}

			theme := themes.GetTheme(cfg.Plots.Theme)
			_, _ = fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Elbow",
				plot.Elbow(points, plot.Options{Palette: theme.Clusters, Width: 60, Height: 15})))
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shopper-segments/internal/cli"
	"github.com/Veraticus/shopper-segments/internal/cluster"
	"github.com/Veraticus/shopper-segments/internal/likelihood"
)

func clustersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Cluster customers and describe each segment",
		Long: `Cluster the transaction table with the configured k and print, for every
cluster, its size, population share, mean age, mean purchase amount and the
item bought most often.`,
		PreRunE: bindFlags(map[string]string{"analysis.clusters": "clusters"}),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			table, pipeline, err := loadFeatures(ctx, cfg)
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

			profiles := cluster.Profiles(table, res.Labels, cfg.Analysis.Clusters)
			_, _ = fmt.Fprintln(out, cli.RenderBox(
				fmt.Sprintf("%s %d clusters, inertia %.2f", cli.ChartIcon, len(profiles), res.Inertia),
				formatProfiles(profiles)))
			return nil
		},
	}

	cmd.Flags().Int("clusters", 4, "Number of clusters")
	return cmd
}

func formatProfiles(profiles []cluster.Profile) string {
	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render(fmt.Sprintf("%-8s %6s %7s %8s %10s  %s",
		"Cluster", "Size", "Share", "Age", "Purchase", "Top item")))
	for _, p := range profiles {
		top := p.TopItem
		if top == "" {
			top = "-"
		} else {
			top = fmt.Sprintf("%s (%d)", top, p.TopItemRecords)
		}
		b.WriteString(fmt.Sprintf("\n%-8d %6d %6.1f%% %8.1f %10.2f  %s",
			p.ID, p.Size, p.Share*100, p.MeanAge, p.MeanPurchase, top))
	}
	return b.String()
}

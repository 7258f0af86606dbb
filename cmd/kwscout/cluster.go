package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClusterCmd(a *app) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster phrases read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Cluster.DistanceThreshold
			}
			comps, err := a.cfg.Build()
			if err != nil {
				return err
			}

			var phrases []string
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if p := strings.TrimSpace(sc.Text()); p != "" {
					phrases = append(phrases, p)
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read phrases: %w", err)
			}

			clusters, err := comps.Clusterer.Cluster(phrases, threshold)
			if err != nil {
				return err
			}
			a.log.Debug().Int("phrases", len(phrases)).Int("clusters", len(clusters)).Msg("clustered")
			return writeJSON(cmd.OutOrStdout(), clusters.Sorted())
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "cluster distance threshold (overrides cluster.distance_threshold)")
	return cmd
}

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cognicore/kwscout/internal/pacing"
	"github.com/cognicore/kwscout/internal/suggest"
	"github.com/cognicore/kwscout/pkg/kwscout"
	"github.com/cognicore/kwscout/pkg/kwscout/source"
	"github.com/cognicore/kwscout/pkg/kwscout/store"
	"github.com/cognicore/kwscout/pkg/kwscout/store/sqlite"
)

func newResearchCmd(a *app) *cobra.Command {
	var (
		offline   bool
		dbPath    string
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "research SEED...",
		Short: "Expand, score, filter and cluster seed keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if cmd.Flags().Changed("db") {
				cfg.Store.DBPath = dbPath
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Cluster.DistanceThreshold = threshold
			}

			comps, err := cfg.Build()
			if err != nil {
				return err
			}

			opts := kwscout.Options{
				Policy:            cfg.Policy,
				Intent:            comps.Intent,
				Clusterer:         comps.Clusterer,
				DistanceThreshold: cfg.Cluster.DistanceThreshold,
				MaxSuggestions:    cfg.Suggest.MaxResults,
				Concurrency:       cfg.Concurrency,
				Logger:            a.log,
			}

			if offline {
				opts.Suggestions = source.StaticSuggestions{}
			} else {
				opts.Suggestions = &suggest.Client{
					BaseURL:    cfg.Suggest.BaseURL,
					ClientName: cfg.Suggest.Client,
					MaxResults: cfg.Suggest.MaxResults,
					HTTPClient: &http.Client{Timeout: cfg.Suggest.Timeout},
					Pacer: pacing.New(pacing.Policy{
						Rate:       cfg.Suggest.RatePerSec,
						Burst:      cfg.Suggest.Burst,
						BaseDelay:  cfg.Suggest.BaseDelay,
						MaxDelay:   pacing.DefaultPolicy().MaxDelay,
						Jitter:     cfg.Suggest.Jitter,
						MaxRetries: cfg.Suggest.MaxRetries,
					}),
				}
			}

			if cfg.Store.DBPath != "" {
				st, err := sqlite.OpenSQLite(ctx, cfg.Store.DBPath)
				if err != nil {
					return fmt.Errorf("open signal store: %w", err)
				}
				defer st.Close()
				opts.Trends = store.TrendSource{Store: st}
				opts.Metrics = store.MetricsSource{Store: st}
			} else {
				a.log.Warn().Msg("no signal store configured, every candidate gets default signals")
			}

			engine, err := kwscout.New(opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			report, err := engine.Research(ctx, args...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the suggestion service and research the seeds themselves")
	cmd.Flags().StringVar(&dbPath, "db", "", "signal database (overrides store.db_path)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "cluster distance threshold (overrides cluster.distance_threshold)")
	return cmd
}

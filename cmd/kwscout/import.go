package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/kwscout/internal/signalfile"
	"github.com/cognicore/kwscout/pkg/kwscout/store/sqlite"
)

func newImportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import FILE.jsonl...",
		Short: "Load trend and metrics exports into the signal database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dbPath == "" {
				dbPath = a.cfg.Store.DBPath
			}
			if dbPath == "" {
				return fmt.Errorf("--db or store.db_path required")
			}

			st, err := sqlite.OpenSQLite(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("open signal store: %w", err)
			}
			defer st.Close()

			var total signalfile.Stats
			for _, path := range args {
				stats, err := signalfile.ImportFile(ctx, path, st, a.log)
				if err != nil {
					return err
				}
				total.Rows += stats.Rows
				total.Skipped += stats.Skipped
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{
				"rows":    total.Rows,
				"skipped": total.Skipped,
			})
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "signal database (overrides store.db_path)")
	return cmd
}

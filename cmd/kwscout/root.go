package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cognicore/kwscout/internal/logging"
	"github.com/cognicore/kwscout/pkg/kwscout/config"
)

type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
	envFile   string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "kwscout",
		Short: "Keyword research for e-commerce listings",
		Long: `kwscout expands seed keywords through an autocomplete service, scores
each candidate on trend, volume, competition and buyer intent, keeps the
candidates passing the configured policy and groups them by similarity.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file path (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format: json or console")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with secrets")

	root.AddCommand(
		newResearchCmd(a),
		newImportCmd(a),
		newClusterCmd(a),
		newListingCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.log = logging.New(logging.Config{
		Level:  a.logLevel,
		Format: a.logFormat,
		Output: cmd.ErrOrStderr(),
	})
	config.LoadEnv(a.envFile)

	a.cfg = config.Default()
	if a.cfgFile != "" {
		cfg, err := config.Load(a.cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

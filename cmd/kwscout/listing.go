package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/kwscout/internal/llm"
)

func newListingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listing KEYWORD",
		Short: "Generate a product listing for a keyword with the configured LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.LLM
			key := os.Getenv(cfg.APIKeyEnv)
			if key == "" {
				a.log.Warn().Str("env", cfg.APIKeyEnv).Msg("API key not set")
			}
			if cfg.BaseURL == "" || cfg.Model == "" {
				return fmt.Errorf("llm.base_url and llm.model required")
			}

			client := &llm.Client{BaseURL: cfg.BaseURL, Model: cfg.Model, APIKey: key, Temperature: cfg.Temperature}
			listing, err := client.GenerateListing(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), listing)
		},
	}
}

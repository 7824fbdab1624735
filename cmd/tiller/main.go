package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tillerhq/tiller/config"
)

// ============================================================================
// TILLER CLI — natural-language search over boat listings
// ============================================================================

const version = "0.1.0"

var (
	cfgFile string
	cfg     *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tiller",
		Short: "Tiller — ask a boat-listings table questions in plain language",
		Long: `Tiller turns natural-language questions into query-algebra expressions
via Gemini and runs them against a local boat-listings table.

The dataset is a JSON or CSV export of listings; nothing leaves the
machine except the question and a few sample rows.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete":
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			return err
		},
	}

	rootCmd.SetVersionTemplate("tiller {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tiller.yaml)")
	rootCmd.PersistentFlags().String("dataset", "", "path to the listings file, .json or .csv")
	rootCmd.PersistentFlags().String("aliases", "", "YAML overlay for the column alias table")
	rootCmd.PersistentFlags().String("model", "", "Gemini model name")
	rootCmd.PersistentFlags().String("api-key", "", "Gemini API key (or GEMINI_API_KEY)")
	rootCmd.PersistentFlags().Int("retries", 0, "extra generation attempts after a failed one")
	rootCmd.PersistentFlags().Duration("timeout", 0, "wall-clock ceiling per expression execution")
	rootCmd.PersistentFlags().Int("sample-rows", 0, "rows of the dataset shown to the model")
	rootCmd.PersistentFlags().String("addr", "", "listen address for tiller serve")

	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newREPLCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newSchemaCommand())

	return rootCmd
}

// Package cli wires the idremap command tree: map, config, and cache.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protmap/idremap/internal/config"
)

// appState carries the loaded configuration between the root command's
// setup and its subcommands.
type appState struct {
	cfg *config.Config
}

// NewRootCmd creates the root cobra command for the idremap CLI.
func NewRootCmd(ver string) *cobra.Command {
	state := &appState{}

	cmd := &cobra.Command{
		Use:     "idremap",
		Short:   "Batch identifier remapping via the UniProt mapping service",
		Long:    "idremap maps a list of identifiers from one namespace to another\nby batching them against the UniProt mapping service.",
		Version: ver,
		Example: `  # Map RefSeq protein identifiers to UniProtKB accessions
  idremap map -i ids.txt -f P_REFSEQ_AC -t ACC -o mapping.tsv -e you@example.org

  # Smaller chunks, no retries, fail hard on any unmapped chunk
  idremap map -i ids.txt -f ACC -t GENENAME -o out.tsv -e you@example.org \
    --chunk-size 200 --retries 0 --strict

  # Initialize the configuration file
  idremap config init

  # Inspect or clear the response cache
  idremap cache info
  idremap cache clear`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			state.cfg = cfg

			setupLogging(cmd, cfg)
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.idremap/config.yaml)")

	cmd.AddCommand(newMapCmd(state), newConfigCmd(), newCacheCmd(state))

	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigPathCmd())
	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protmap/idremap/internal/config"
)

// newConfigInitCmd creates the config init command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the configuration file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg.SetConfigPath(path)
			}

			if !force {
				if _, err := os.Stat(cfg.ConfigPath()); err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
				}
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			cmd.Printf("Configuration initialized at %s\n", cfg.ConfigPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// newConfigPathCmd creates the config path command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg.SetConfigPath(path)
			}
			cmd.Println(cfg.ConfigPath())
			return nil
		},
	}
}

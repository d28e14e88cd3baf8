package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/protmap/idremap/internal/config"
	"github.com/protmap/idremap/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// setupLogging configures the logger from config file, environment, and the
// --debug flag, and attaches it to the command context. Format defaults to
// console on a terminal and JSON otherwise.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	loggingCfg := cfg.Logging

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
	}

	format := loggingCfg.Format
	if format == "" {
		format = logging.FormatJSON
		if isTerminal(os.Stderr) {
			format = logging.FormatConsole
		}
	}

	logger := logging.NewLogger(logging.Config{
		Level:  loggingCfg.Level,
		Format: format,
	})

	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	logger.Debug().Str("command", cmd.Name()).Msg("command started")
}

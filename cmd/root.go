package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/errors"
	"github.com/blaze-data/blaze/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "blaze",
	Short: "Blaze project tooling CLI",
	Long: `blaze manages version derivation, lint policy, and ad-hoc table
queries for a project.

Versions come from git tags: the nearest reachable tag plus the commit
distance, rendered in a configurable style and optionally stamped into
the source tree for builds without a checkout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	_          = logging.UserError // reserved for future use
)

// loadConfig reads the project configuration from the default app root.
func loadConfig() (*config.Config, error) {
	cfg, err := app.Default.LoadConfig()
	if err != nil {
		return nil, errors.ConfigError("failed to load project configuration", err)
	}
	return cfg, nil
}

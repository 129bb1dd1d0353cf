package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration",
	Long: `Writes a setup.cfg with a starter [versioneer] and [flake8]
configuration into the project root. Refuses to overwrite an existing
file unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing setup.cfg")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	a := app.Default
	path := filepath.Join(a.Root, config.SetupCfgName)

	if a.FS.Exists(path) && !initForce {
		return errors.ConfigError(config.SetupCfgName+" already exists (use --force to overwrite)", nil)
	}

	if err := a.FS.WriteFile(path, []byte(config.StarterSetupCfg), 0644); err != nil {
		return errors.ConfigError("failed to write "+config.SetupCfgName, err)
	}

	logSuccess("Wrote %s", path)
	logInfo("Edit tag_prefix and versionfile_source to match your project")
	return nil
}

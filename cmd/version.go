package cmd

import (
	"github.com/spf13/cobra"
)

var (
	versionStyle  string
	versionFormat string
	versionPick   bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the project version",
	Long: `Derives the project version from the first available source:
a stamp file, live git metadata, or the parent directory name. When no
source works the version is "0+unknown".`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().StringVar(&versionStyle, "style", "", "Rendering style (overrides configuration)")
	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format: text, json, or yaml")
	versionCmd.Flags().BoolVar(&versionPick, "pick", false, "Pick a release tag interactively")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := resolveVersion(cmd, &cfg.Versioning, versionStyle, versionPick, false)
	if err != nil {
		return err
	}

	if info.Error != "" {
		logWarning("%s", info.Error)
	}

	return printRecord(cmd, info, versionFormat)
}

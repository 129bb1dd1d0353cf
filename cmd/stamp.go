package cmd

import (
	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/errors"
	"github.com/blaze-data/blaze/internal/history"
	"github.com/blaze-data/blaze/internal/version"
)

var (
	stampBuild bool
	stampPick  bool
)

var stampCmd = &cobra.Command{
	Use:   "stamp",
	Short: "Write the version record into the source tree",
	Long: `Derives the current version and writes it to the configured
versionfile_source as JSON, so builds without a git checkout still know
their version. Each stamp is recorded in the project history.`,
	Args: cobra.NoArgs,
	RunE: runStamp,
}

func init() {
	stampCmd.Flags().BoolVar(&stampBuild, "build", false, "Also write the versionfile_build location")
	stampCmd.Flags().BoolVar(&stampPick, "pick", false, "Stamp an interactively picked release tag")
	rootCmd.AddCommand(stampCmd)
}

func runStamp(cmd *cobra.Command, args []string) error {
	a := app.Default

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	vcfg := &cfg.Versioning
	if vcfg.VersionfileSource == "" {
		return errors.StampError("versionfile_source is not configured", nil)
	}

	info, err := resolveVersion(cmd, vcfg, "", stampPick, true)
	if err != nil {
		return err
	}

	if err := version.WriteStamp(a.FS, a.Root, vcfg.VersionfileSource, info); err != nil {
		return errors.StampError("failed to write stamp", err)
	}
	logSuccess("Stamped %s as %s", vcfg.VersionfileSource, info.Version)

	if stampBuild {
		if vcfg.VersionfileBuild == "" {
			return errors.StampError("versionfile_build is not configured", nil)
		}
		if err := version.WriteStamp(a.FS, a.Root, vcfg.VersionfileBuild, info); err != nil {
			return errors.StampError("failed to write build stamp", err)
		}
		logSuccess("Stamped %s as %s", vcfg.VersionfileBuild, info.Version)
	}

	entry := history.Entry{
		Version:        info.Version,
		FullRevisionID: info.FullRevisionID,
		Style:          vcfg.Style,
		File:           vcfg.VersionfileSource,
	}
	if info.Dirty != nil {
		entry.Dirty = *info.Dirty
	}
	if err := history.NewLog(a.FS, a.Root).Append(entry); err != nil {
		logWarning("failed to record stamp history: %v", err)
	}

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/doctor"
	"github.com/blaze-data/blaze/internal/errors"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the project environment",
	Long: `Checks that git is available, the project is a repository, the
configuration parses, and the stamp target is writable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a := app.Default

	report := doctor.Run(cmd.Context(), a.FS, a.Executor, a.Root)

	for _, check := range report.Checks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", statusIcon(check.Status), check.Name, check.Detail)
	}

	if !report.Healthy() {
		return errors.New(errors.ExitGeneralError, "environment checks failed")
	}
	return nil
}

func statusIcon(status doctor.Status) string {
	switch status {
	case doctor.StatusOK:
		return "✓"
	case doctor.StatusWarn:
		return "⚠"
	case doctor.StatusFail:
		return "✗"
	default:
		return "?"
	}
}

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/errors"
	"github.com/blaze-data/blaze/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint policy and checks",
	Long: `Inspects and applies the project's lint policy: which warning
codes are enabled, which paths are excluded, and the textual checks
blaze can run itself.`,
}

var lintConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective lint configuration",
	Args:  cobra.NoArgs,
	RunE:  runLintConfig,
}

var lintCheckCmd = &cobra.Command{
	Use:   "check <code>...",
	Short: "Report whether warning codes are enabled",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLintCheck,
}

var lintRunCmd = &cobra.Command{
	Use:   "run [path]...",
	Short: "Run the textual lint checks",
	Long: `Runs the textual checks (line length, tabs, trailing whitespace,
final newline) over the given paths, or the project root when none are
given. Exits non-zero when findings remain after select/ignore
filtering.`,
	RunE: runLintRun,
}

func init() {
	lintCmd.AddCommand(lintConfigCmd)
	lintCmd.AddCommand(lintCheckCmd)
	lintCmd.AddCommand(lintRunCmd)
	rootCmd.AddCommand(lintCmd)
}

func runLintConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "max-line-length: %d\n", cfg.Lint.MaxLineLength)
	fmt.Fprintf(out, "select:          %s\n", joinOrDash(cfg.Lint.Select))
	fmt.Fprintf(out, "ignore:          %s\n", joinOrDash(cfg.Lint.Ignore))
	fmt.Fprintf(out, "exclude:         %s\n", joinOrDash(cfg.Lint.Exclude))
	return nil
}

func runLintCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	decider, err := lint.NewDecider(cfg.Lint.Select, cfg.Lint.Ignore)
	if err != nil {
		return errors.LintError("invalid lint configuration", err)
	}

	for _, code := range args {
		state := "disabled"
		if decider.Enabled(code) {
			state = "enabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", code, state)
	}
	return nil
}

func runLintRun(cmd *cobra.Command, args []string) error {
	a := app.Default

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checker, err := lint.NewChecker(&cfg.Lint)
	if err != nil {
		return errors.LintError("invalid lint configuration", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{a.Root}
	} else {
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				paths[i] = filepath.Join(a.Root, p)
			}
		}
	}

	findings, err := checker.Check(a.FS, paths)
	if err != nil {
		return errors.LintError("lint run failed", err)
	}

	for _, f := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), f.String())
	}

	if len(findings) > 0 {
		return errors.FindingsError(len(findings))
	}

	logSuccess("No lint findings")
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

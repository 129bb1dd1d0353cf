package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/errors"
	"github.com/blaze-data/blaze/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded stamps",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the most recent entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := app.Default

	entries, err := history.NewLog(a.FS, a.Root).Tail(historyLimit)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to read history", err)
	}

	if len(entries) == 0 {
		logInfo("No stamps recorded. Create one with: blaze stamp")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tVERSION\tREVISION\tDIRTY\tFILE")
	fmt.Fprintln(w, "----\t-------\t--------\t-----\t----")

	for _, e := range entries {
		rev := e.FullRevisionID
		if len(rev) > 12 {
			rev = rev[:12]
		}
		dirty := ""
		if e.Dirty {
			dirty = "dirty"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Version, rev, dirty, e.File)
	}

	return w.Flush()
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"zeiterfassung/reconcile"
)

var reconcileRemoveDuplicates bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Report overlapping entries and remove exact duplicates",
	Long: `Verify the entry list for time overlaps and duplicates.

Why this exists:
- Importing an exported month a second time repeats every entry.
- Entries added on two devices before a pull can overlap.

Overlaps are only reported. With --remove-duplicates, entries that repeat date,
start and end of an earlier entry are deleted as one batch; the first one stays.`,
	Example: `
  # Report overlaps and duplicates
  zeiterfassung reconcile

  # Typical workflow: import, remove duplicates, export
  zeiterfassung import -i "Stunden - März 2025.xlsx"
  zeiterfassung reconcile --remove-duplicates
  zeiterfassung export --month 2025-03
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			if !reconcileRemoveDuplicates {
				printReconcileResult(os.Stdout, reconcile.Check(app.entries.List()), 0)
				return nil
			}

			result, removed, err := reconcile.RemoveDuplicates(app.entries)
			if err != nil {
				return err
			}
			printReconcileResult(os.Stdout, result, removed)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileRemoveDuplicates, "remove-duplicates", false, "Delete exact duplicates, keeping the first entry")
}

func printReconcileResult(w io.Writer, result reconcile.Result, removed int) {
	for _, overlap := range result.Overlaps {
		fmt.Fprintf(w, "Overlap (%d min): %s | %s\n",
			overlap.Minutes,
			describeEntry(overlap.First),
			describeEntry(overlap.Second),
		)
	}
	fmt.Fprintf(w,
		"Reconcile completed. Entries checked: %d, Days processed: %d, Overlaps: %d, Duplicates: %d, Duplicates removed: %d, Skipped: %d\n",
		result.EntriesChecked,
		result.DaysProcessed,
		len(result.Overlaps),
		len(result.Duplicates),
		removed,
		result.Skipped,
	)
}

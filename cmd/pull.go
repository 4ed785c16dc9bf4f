package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"zeiterfassung/internal/classify"
	"zeiterfassung/mirror"
	"zeiterfassung/worklog"
)

var pullDryRun bool

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local entries with the remote copy",
	Long: `Read the complete entry list from the remote endpoint and replace the
local list with it.

Remote dates and times are normalized before they are stored. If the request
fails or the response is not a success, local entries stay unchanged.
With --dry-run the remote list is only compared with the local one.`,
	Example: `
  # Pull from the configured endpoint
  zeiterfassung pull

  # Preview what a pull would add, change or drop
  zeiterfassung pull --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), app.config.Remote.Timeout)
			defer cancel()

			if pullDryRun {
				preview := &capturedEntries{}
				if err := app.syncer.Refresh(ctx, preview); err != nil {
					return pullError(err)
				}
				printDiff(os.Stdout, classify.Entries(app.entries.List(), preview.entries))
				return nil
			}

			if err := app.syncer.Refresh(ctx, app.entries); err != nil {
				return pullError(err)
			}
			fmt.Printf("Pull completed. Entries: %d\n", app.entries.Len())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "Compare remote and local entries without replacing anything")
}

// capturedEntries receives a pulled collection instead of the entry store.
type capturedEntries struct {
	entries []worklog.Entry
}

func (c *capturedEntries) Replace(entries []worklog.Entry) error {
	c.entries = entries
	return nil
}

func pullError(err error) error {
	if errors.Is(err, mirror.ErrDisabled) {
		return fmt.Errorf("remote sync is not configured: set it with 'zeiterfassung settings set --script-url <url>'")
	}
	return fmt.Errorf("pull failed, local entries unchanged: %w", err)
}

func printDiff(w io.Writer, diff classify.Diff) {
	for _, entry := range diff.Added {
		fmt.Fprintf(w, "+ %s\n", describeEntry(entry))
	}
	for _, change := range diff.Changed {
		fmt.Fprintf(w, "~ %s -> %s\n", describeEntry(change.Local), describeEntry(change.Remote))
	}
	for _, entry := range diff.Removed {
		fmt.Fprintf(w, "- %s\n", describeEntry(entry))
	}
	fmt.Fprintf(w, "Dry run. Added: %d, Changed: %d, Removed: %d, Unchanged: %d\n",
		len(diff.Added),
		len(diff.Changed),
		len(diff.Removed),
		diff.Unchanged,
	)
}

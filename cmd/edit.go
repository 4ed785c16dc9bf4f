package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zeiterfassung/worklog"
)

var (
	editDate string
	editFrom string
	editTo   string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change date, start or end time of an entry",
	Long: `Update an existing entry in place. Only the given flags change; the
other fields keep their current values. Hours are recomputed.`,
	Example: `
  # Move the end of an entry
  zeiterfassung edit 5f0c7c3e-0a0e-4b55-9d0a-3b0d1f4c2a11 --to 17:15
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApplication(func(app *application) error {
			current, ok := app.entries.Get(id)
			if !ok {
				return fmt.Errorf("entry not found: %s", id)
			}

			draft := mergeDraft(current, editDate, editFrom, editTo)
			updated, found, err := app.gateway.Update(id, draft)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("entry not found: %s", id)
			}
			fmt.Printf("Updated entry %s: %s\n", updated.ID, describeEntry(updated))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editDate, "date", "d", "", "New date YYYY-MM-DD")
	editCmd.Flags().StringVar(&editFrom, "from", "", "New start time HH:MM")
	editCmd.Flags().StringVar(&editTo, "to", "", "New end time HH:MM")
}

// mergeDraft overlays the non-empty values on the current entry fields.
func mergeDraft(current worklog.Entry, date, from, to string) worklog.Draft {
	draft := worklog.Draft{Date: current.Date, From: current.From, To: current.To}
	if date != "" {
		draft.Date = date
	}
	if from != "" {
		draft.From = from
	}
	if to != "" {
		draft.To = to
	}
	return draft
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zeiterfassung/worklog"
)

var (
	addDate string
	addFrom string
	addTo   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a work time entry",
	Long: `Create a new entry from date, start and end time.

Hours are computed from --from and --to. An end time before the start time
counts as a shift across midnight. The entry is stored locally first and then
pushed to the remote endpoint if one is configured.`,
	Example: `
  # Add an entry for today
  zeiterfassung add --from 07:00 --to 16:30

  # Add a night shift on a specific date
  zeiterfassung add --date 2025-03-04 --from 22:00 --to 06:00
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := worklog.Draft{
			Date: defaultDate(addDate, time.Now()),
			From: addFrom,
			To:   addTo,
		}

		return withApplication(func(app *application) error {
			entry, err := app.gateway.Create(draft)
			if err != nil {
				return err
			}
			fmt.Printf("Added entry %s: %s\n", entry.ID, describeEntry(entry))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Entry date YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addFrom, "from", "", "Start time HH:MM")
	addCmd.Flags().StringVar(&addTo, "to", "", "End time HH:MM")

	_ = addCmd.MarkFlagRequired("from")
	_ = addCmd.MarkFlagRequired("to")
}

func defaultDate(value string, now time.Time) string {
	if value == "" {
		return now.Format("2006-01-02")
	}
	return value
}

func describeEntry(entry worklog.Entry) string {
	return fmt.Sprintf("%s %s-%s (%.2f h)", entry.Date, entry.From, entry.To, entry.Hours)
}

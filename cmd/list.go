package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"zeiterfassung/output"
)

var (
	listMonth  string
	listJSON   bool
	listMonths bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the entries, hours and pay of one month",
	Long: `Print all entries of a month, newest first, with total hours and the
net wage at the configured hourly rate.

Use --months to list every month that has entries instead.`,
	Example: `
  # Current month
  zeiterfassung list

  # A specific month as JSON
  zeiterfassung list --month 2025-03 --json

  # Months with entries
  zeiterfassung list --months
`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		key, err := resolveMonth(listMonth, now)
		if err != nil {
			return err
		}

		return withApplication(func(app *application) error {
			entries := app.entries.List()
			if listMonths {
				for _, month := range output.AvailableMonths(entries, now) {
					fmt.Printf("%s  %s\n", month, month.Label())
				}
				return nil
			}

			summary := output.BuildMonthSummary(entries, key.Year, key.Month, app.settings.Current().HourlyWage)
			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(summary)
			}
			return printMonthSummary(os.Stdout, summary)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listMonth, "month", "m", "", "Month YYYY-MM (default: current month)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the month summary as JSON")
	listCmd.Flags().BoolVar(&listMonths, "months", false, "List months that have entries")
}

// resolveMonth parses value as YYYY-MM, falling back to the month of now.
func resolveMonth(value string, now time.Time) (output.MonthKey, error) {
	if strings.TrimSpace(value) == "" {
		return output.MonthOf(now), nil
	}
	return output.ParseMonthKey(value)
}

func printMonthSummary(w io.Writer, summary output.MonthSummary) error {
	if _, err := fmt.Fprintf(w, "%s\n", summary.Label); err != nil {
		return err
	}
	if len(summary.Entries) == 0 {
		_, err := fmt.Fprintln(w, "Keine Einträge für diesen Monat")
		return err
	}
	for _, entry := range summary.Entries {
		if _, err := fmt.Fprintf(w, "%s  %s-%s  %6.2f h  %s\n", entry.Date, entry.From, entry.To, entry.Hours, entry.ID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %.2f h, %.2f CHF (%d entries, %.2f CHF/h)\n",
		summary.TotalHours,
		summary.TotalPay,
		len(summary.Entries),
		summary.Wage,
	)
	return err
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zeiterfassung/worklog"
)

var (
	settingsScriptURL string
	settingsWage      float64
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the remote endpoint and the hourly wage",
	Long: `Application settings live in the local database next to the entries:
- scriptUrl: remote endpoint for push and pull (empty disables sync)
- hourlyWage: net wage per hour used for month totals and exports`,
	Example: `
  # Show current settings
  zeiterfassung settings show

  # Set endpoint and wage
  zeiterfassung settings set --script-url https://script.example.com/exec --wage 42.5

  # Disable remote sync
  zeiterfassung settings set --script-url ""
`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			printSettings(app.settings.Current())
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings; flags that are not given keep their value",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("script-url") && !flags.Changed("wage") {
			return fmt.Errorf("nothing to change: use --script-url and/or --wage")
		}

		return withApplication(func(app *application) error {
			next := app.settings.Current()
			if flags.Changed("script-url") {
				next.ScriptURL = settingsScriptURL
			}
			if flags.Changed("wage") {
				next.HourlyWage = settingsWage
			}
			if err := app.settings.Save(next); err != nil {
				return err
			}
			fmt.Println("Settings saved.")
			printSettings(app.settings.Current())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().StringVar(&settingsScriptURL, "script-url", "", "Remote endpoint URL (empty disables sync)")
	settingsSetCmd.Flags().Float64Var(&settingsWage, "wage", worklog.DefaultHourlyWage, "Hourly net wage in CHF")
}

func printSettings(current worklog.Settings) {
	scriptURL := current.ScriptURL
	if scriptURL == "" {
		scriptURL = "(not set, sync disabled)"
	}
	fmt.Printf("scriptUrl: %s\n", scriptURL)
	fmt.Printf("hourlyWage: %.2f\n", current.HourlyWage)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zeiterfassung/gateway"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <id> [id...]",
	Short: "Delete one or more entries",
	Long: `Delete entries by id.

A single id is removed directly. Several ids are selected together and removed
as one batch after an interactive confirmation, which --yes skips. The batch
is persisted and pushed once.`,
	Example: `
  # Remove one entry
  zeiterfassung remove 5f0c7c3e-0a0e-4b55-9d0a-3b0d1f4c2a11

  # Remove several entries without asking
  zeiterfassung remove --yes 5f0c7c3e-0a0e-4b55-9d0a-3b0d1f4c2a11 9b1de1c2-6a0f-4c8e-8f45-52b1e43b7d90
`,
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			if len(args) == 1 {
				removed, err := app.gateway.Delete(args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("entry not found: %s", args[0])
				}
				fmt.Printf("Removed entry %s\n", args[0])
				return nil
			}

			confirmer := promptConfirmer(promptInput, promptOutput)
			if removeYes {
				confirmer = gateway.Always
			}
			removed, err := removeBatch(app.gateway, args, confirmer)
			if errors.Is(err, gateway.ErrNotConfirmed) {
				return fmt.Errorf("remove aborted: confirmation was not 'Y'")
			}
			if err != nil {
				return err
			}
			fmt.Printf("Removed entries: %d of %d\n", removed, len(args))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip the confirmation prompt for batch deletes")
}

// removeBatch selects ids in multi-select mode and deletes them as one batch.
func removeBatch(gw *gateway.Gateway, ids []string, confirmer gateway.Confirmer) (int, error) {
	if !gw.State().MultiSelect {
		gw.ToggleMultiSelect()
	}
	for _, id := range ids {
		if gw.State().IsSelected(id) {
			continue
		}
		gw.ToggleSelection(id)
	}
	return gw.DeleteSelected(confirmer)
}

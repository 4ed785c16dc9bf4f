package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zeiterfassung/mirror"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send all local entries to the remote endpoint",
	Long: `Push the complete local entry list to the remote endpoint and wait for
the request to finish.

Every change already triggers a push. Use this command after the endpoint was
unreachable or newly configured.`,
	Example: `
  # Push all entries
  zeiterfassung push
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			if !mirror.Enabled(app.settings.Current()) {
				return fmt.Errorf("remote sync is not configured: set it with 'zeiterfassung settings set --script-url <url>'")
			}

			entries := app.entries.List()
			app.syncer.Dispatch(entries)

			ctx, cancel := context.WithTimeout(cmd.Context(), app.config.Remote.Timeout)
			defer cancel()
			if err := app.syncer.Wait(ctx); err != nil {
				return fmt.Errorf("wait for push: %w", err)
			}
			if status := app.syncer.Status(); status.LastError != "" {
				return fmt.Errorf("push failed: %s", status.LastError)
			}
			fmt.Printf("Push completed. Entries: %d\n", len(entries))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

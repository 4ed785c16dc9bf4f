package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage zeiterfassung configuration file values.",
	Long: `Create, edit, display, and delete the zeiterfassung configuration file.

The configuration stores process-wide values:
- storage.db_path
- remote.company_name / remote.timeout / remote.user_agent
- server.port
- log.level

Remote endpoint and hourly wage are user settings kept in the database;
see "zeiterfassung settings".`,
	Example: `
  # Create default config in $HOME/.zeiterfassung.yaml
  zeiterfassung config create

  # Show active config and source file
  zeiterfassung config show

  # Open active config in editor (creates example if missing)
  zeiterfassung config edit

  # Delete active config file
  zeiterfassung config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

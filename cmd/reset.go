package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zeiterfassung/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the complete local SQLite database file",
	Long: `Destructive cleanup command.

This command deletes the local SQLite database file with all entries and
settings. The remote copy is not touched; "pull" restores entries from it.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the configured database (requires interactive confirmation)
  zeiterfassung reset

  # Delete a specific database file
  zeiterfassung reset --db ./zeiterfassung.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := viper.GetString(config.KeyStorageDBPath)
		confirmed, err := confirmPrompt(promptInput, promptOutput, fmt.Sprintf("Delete database file %q?", dbPath))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("reset aborted: confirmation was not 'Y'")
		}

		if err := removeDatabaseFile(dbPath); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}

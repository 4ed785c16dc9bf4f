package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file",
	Long: `Remove the configuration file zeiterfassung loaded for this run.

Entries and settings live in the database and are not affected. Without
--yes the command asks for confirmation first.`,
	Example: `
  # Delete the active config after confirming
  zeiterfassung config delete

  # Delete a config at a custom path without asking
  zeiterfassung --configFile ./zeiterfassung.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var input io.Reader
		if !configDeleteYes {
			input = promptInput
		}
		path, err := deleteConfigFile(viper.ConfigFileUsed(), input, promptOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted configuration file: %s\n", path)
		return nil
	},
}

func init() {
	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without asking for confirmation")
	configCmd.AddCommand(configDeleteCmd)
}

// deleteConfigFile removes path. A nil input skips the confirmation.
func deleteConfigFile(path string, input io.Reader, output io.Writer) (string, error) {
	if path == "" {
		return "", errors.New("no configuration file in use")
	}

	if input != nil {
		confirmed, err := confirmPrompt(input, output, fmt.Sprintf("Delete configuration file %q?", path))
		if err != nil {
			return "", err
		}
		if !confirmed {
			return "", errors.New("config delete aborted: confirmation was not 'Y'")
		}
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("delete configuration file: %w", err)
	}
	return path, nil
}

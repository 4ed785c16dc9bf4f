package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zeiterfassung/config"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write the example configuration file",
	Long: `Write the commented example configuration that "config edit" also starts from.

An existing file is left alone unless --force is given.`,
	Example: `
  # Create $HOME/.zeiterfassung.yaml
  zeiterfassung config create

  # Reset a custom config to the example
  zeiterfassung --configFile ./zeiterfassung.yaml config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		return createConfigFile(cmd.OutOrStdout(), path, configCreateForce)
	},
}

func init() {
	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing configuration file")
	configCmd.AddCommand(configCreateCmd)
}

func createConfigFile(w io.Writer, path string, force bool) error {
	if force {
		if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
			return fmt.Errorf("overwrite config file: %w", err)
		}
		fmt.Fprintf(w, "Config file reset to example: %s\n", path)
		return nil
	}

	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "Config file created: %s\n", path)
	} else {
		fmt.Fprintf(w, "Config file already exists: %s\n", path)
	}
	return nil
}

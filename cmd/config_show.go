package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zeiterfassung/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  zeiterfassung config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, using defaults and environment.")
		}
		printConfig(os.Stdout, cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "%s: %s\n", config.KeyStorageDBPath, cfg.Storage.DBPath)
	fmt.Fprintf(w, "%s: %s\n", config.KeyRemoteCompanyName, cfg.Remote.CompanyName)
	fmt.Fprintf(w, "%s: %s\n", config.KeyRemoteTimeout, cfg.Remote.Timeout)
	fmt.Fprintf(w, "%s: %s\n", config.KeyRemoteUserAgent, cfg.Remote.UserAgent)
	fmt.Fprintf(w, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zeiterfassung/config"
)

var (
	cfgFile string
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zeiterfassung",
	Short: "Track work time entries, sync them to a remote sheet, and export monthly reports.",
	Long: `
**********************************************
*              ZEITERFASSUNG                 *
**********************************************

This CLI keeps work time entries (date, from, to) in a local SQLite database,
mirrors the complete list to a remote spreadsheet endpoint after every change,
and aggregates entries per month with hours and net wage.

The local database is the source of truth. A configured remote endpoint
receives a full copy after each change and can be pulled back explicitly.
`,
	Example: `
  # Create configuration file
  zeiterfassung config create

  # Configure the remote endpoint and the hourly wage
  zeiterfassung settings set --script-url https://script.example.com/exec --wage 38

  # Log today's work
  zeiterfassung add --from 07:00 --to 16:30

  # Show the current month
  zeiterfassung list

  # Export March 2025 as Excel sheet
  zeiterfassung export --month 2025-03

  # Start the local web UI
  zeiterfassung serve
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.zeiterfassung.yaml, then ./.zeiterfassung.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before configuration")
	rootCmd.PersistentFlags().String("db", "", "Path to local SQLite database (default from storage.db_path)")
	_ = viper.BindPFlag(config.KeyStorageDBPath, rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig reads in the dotenv file, the config file and ENV variables if set.
func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".zeiterfassung" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".zeiterfassung")
	}

	// ZEITERFASSUNG_STORAGE_DB_PATH overrides storage.db_path and so on.
	viper.SetEnvPrefix("zeiterfassung")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in. Defaults cover a missing file.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: reading config file failed: %v\n", err)
		}
	}
}

// loadEnvFile loads path into the process environment. A missing file is fine;
// variables that are already set win.
func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zeiterfassung/config"
)

const defaultConfigName = ".zeiterfassung.yaml"

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active zeiterfassung config file in your editor.

Editor selection order:
1) $ZEITERFASSUNG_EDITOR
2) $VISUAL
3) $EDITOR
4) vi (notepad on Windows)

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated and the resulting values are printed.`,
	Example: `
  # Edit active config
  zeiterfassung config edit

  # Edit with a specific editor
  EDITOR="code --wait" zeiterfassung config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editorCommand, err := buildEditorCommand(editorFromEnv(os.Getenv, runtime.GOOS), configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading edited config failed: %w", err)
		}
		cfg, err := config.ValidateYAMLContent(content)
		if err != nil {
			return fmt.Errorf("config validation failed in %s: %w", configPath, err)
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		printConfig(os.Stdout, cfg)
		return nil
	},
}

// resolveConfigEditPath prefers the --configFile flag, then the file viper
// loaded, then $HOME/.zeiterfassung.yaml.
func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// ensureConfigFileWithTemplate writes the example config to path unless a file
// exists there already. It reports whether a file was created.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func editorFromEnv(getenv func(string) string, goos string) string {
	for _, key := range []string{"ZEITERFASSUNG_EDITOR", "VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			return value
		}
	}
	if goos == "windows" {
		return "notepad"
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

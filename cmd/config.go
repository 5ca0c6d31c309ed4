package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfig = `# flowctl configuration
# Values can also come from FLOWCTL_* environment variables or a .env file,
# e.g. FLOWCTL_GITHUB_TOKEN.

# Directory scripts are resolved against and run in (default: working directory)
# project_root: /path/to/project

# Workflow catalog, relative to project_root (default: workflow-config.json)
# catalog: workflow-config.json

# Activity log, relative to project_root (default: workflow-automation.log)
# log_file: workflow-automation.log

# Number of suggestions offered when no keyword matches
suggest_limit: 5

# Interpreter per script extension; {script} is the resolved script path.
# launchers:
#   .py: ["python", "-u", "{script}"]
#   .ps1: ["pwsh", "-File", "{script}"]

# Enables the check_ci_status hook and 'flowctl github runs'
github:
  token: ""       # personal access token (optional for public repos)
  owner: ""
  repo: ""
  ci_runs: 5
`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage flowctl configuration",
	Long:  `Create or display the flowctl configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a default configuration file in your home directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := configFilePath()
		if err != nil {
			return err
		}

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file already exists at %s\n", configPath)
			return nil
		}

		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file and the resolved paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := loadAppConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Project root: %s\n", cfg.ProjectRoot)
		fmt.Fprintf(out, "Catalog:      %s\n", cfg.CatalogPath)
		fmt.Fprintf(out, "Activity log: %s\n\n", cfg.LogFile)

		configPath, err := configFilePath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Fprintln(out, "No configuration file found. Run 'flowctl config init' to create one.")
			return nil
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}

		fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)
		fmt.Fprint(out, string(content))
		return nil
	},
}

// configFilePath returns the --config value or $HOME/.flowctl.yaml.
func configFilePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, ".flowctl.yaml"), nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

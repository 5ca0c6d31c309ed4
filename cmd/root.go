package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "Natural-language launcher for project workflows",
	Long: `flowctl maps free-form requests such as "commit my changes" to the
workflows declared in a project's workflow-config.json, then runs the
matching script together with its pre and post actions.

Run without a subcommand to start the interactive prompt.`,
	Args: cobra.NoArgs,
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flowctl.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")
	rootCmd.PersistentFlags().String("project-root", "", "directory scripts are resolved against (default is the working directory)")
	rootCmd.PersistentFlags().String("catalog", "", "workflow catalog (default is <project-root>/workflow-config.json)")
	rootCmd.PersistentFlags().String("log-file", "", "activity log (default is <project-root>/workflow-automation.log)")

	// Flag surface of the original single-command assistant.
	rootCmd.Flags().String("recognize", "", "recognize the intent of a command")
	rootCmd.Flags().String("execute", "", "run the workflow matching a command without confirmation")
	rootCmd.Flags().Bool("list", false, "list available workflows")
	rootCmd.Flags().Bool("test", false, "run the recognition self-test")
	rootCmd.Flags().Bool("status", false, "show system status")
	rootCmd.MarkFlagsMutuallyExclusive("recognize", "execute", "list", "test", "status")

	// TODO: add error return here
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("project_root", rootCmd.PersistentFlags().Lookup("project-root"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	viper.SetDefault("suggest_limit", 5)
	viper.SetDefault("github.ci_runs", 5)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load(".env")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flowctl")
	}

	viper.SetEnvPrefix("FLOWCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := newAppFromViper(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	list, _ := flags.GetBool("list")
	status, _ := flags.GetBool("status")
	test, _ := flags.GetBool("test")

	switch {
	case flags.Changed("recognize"):
		text, _ := flags.GetString("recognize")
		return a.recognize(cmd.Context(), text)
	case flags.Changed("execute"):
		text, _ := flags.GetString("execute")
		cmd.SilenceUsage = true
		return a.run(cmd.Context(), text)
	case list:
		a.listWorkflows()
		return nil
	case status:
		return a.status()
	case test:
		a.selfTest(nil)
		return nil
	}

	return a.interactive(cmd.Context())
}

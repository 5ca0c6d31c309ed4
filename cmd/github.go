package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ghclient "github.com/bgdnvk/flowctl/internal/github"
)

// githubCmd represents the github command
var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Show GitHub Actions state for the configured repository",
	Long:  `Query the repository set in github.owner and github.repo. The same data backs the check_ci_status hook.`,
}

var githubRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent workflow runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("github.token")
		owner := viper.GetString("github.owner")
		repo := viper.GetString("github.repo")

		if owner == "" || repo == "" {
			return fmt.Errorf("github.owner and github.repo must be configured")
		}

		client := ghclient.NewClient(token, owner, repo)
		if apiURL := viper.GetString("github.api_url"); apiURL != "" {
			if err := client.SetBaseURL(apiURL); err != nil {
				return err
			}
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := client.RecentRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(out, "No workflow runs found for %s\n", client.Repository())
			return nil
		}
		fmt.Fprintf(out, "Recent workflow runs for %s:\n", client.Repository())
		fmt.Fprint(out, ghclient.FormatRuns(runs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(githubCmd)
	githubCmd.AddCommand(githubRunsCmd)

	githubRunsCmd.Flags().IntP("limit", "n", ghclient.DefaultRunLimit, "number of runs to show")
}

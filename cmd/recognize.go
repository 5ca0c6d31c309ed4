package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [text]",
	Short: "Recognize the intent of a command",
	Long: `Print the intent recognized in the text. When a workflow matches by
keyword, offer to run it; otherwise print suggestions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppFromViper(cmd)
		if err != nil {
			return err
		}
		return a.recognize(cmd.Context(), strings.Join(args, " "))
	},
}

var runCmd = &cobra.Command{
	Use:   "run [text]",
	Short: "Run the workflow matching a command",
	Long: `Resolve the text to a workflow and run it without asking for
confirmation. The text is either an exact category.operation key or a
request matched by keyword. Exits non-zero when nothing matches or the workflow fails.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppFromViper(cmd)
		if err != nil {
			return err
		}
		return a.run(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
	rootCmd.AddCommand(runCmd)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available workflows",
	Long:  `List every workflow in the catalog grouped by category, with its keywords.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppFromViper(cmd)
		if err != nil {
			return err
		}
		a.listWorkflows()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// categoryTitle turns "git_operations" into "Git Operations".
func categoryTitle(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}

func (a *app) listWorkflows() {
	fmt.Fprintln(a.out, "\nAvailable workflows:")
	fmt.Fprintln(a.out, strings.Repeat("=", 50))

	if len(a.catalog.Categories) == 0 {
		fmt.Fprintln(a.out, "\nNo workflows configured.")
		return
	}

	for _, category := range a.catalog.Categories {
		fmt.Fprintf(a.out, "\n%s:\n", categoryTitle(category.Name))

		for _, op := range category.Operations {
			description := op.Description
			if description == "" {
				description = "No description"
			}
			fmt.Fprintf(a.out, "  - %s\n", description)
			fmt.Fprintf(a.out, "    Keywords: %s\n", strings.Join(op.Keywords, ", "))
			fmt.Fprintln(a.out)
		}
	}
}

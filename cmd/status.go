package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgdnvk/flowctl/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Long:  `Show whether the catalog loaded, how many activity entries exist and which script interpreters are available.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppFromViper(cmd)
		if err != nil {
			return err
		}
		return a.status()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func (a *app) status() error {
	fmt.Fprintln(a.out, "Automation status:")
	fmt.Fprintln(a.out, strings.Repeat("=", 50))

	if a.loadErr == nil {
		fmt.Fprintf(a.out, "Catalog loaded: %s\n", a.cfg.CatalogPath)
	} else {
		fmt.Fprintf(a.out, "Catalog not loaded, using defaults: %v\n", a.loadErr)
	}
	fmt.Fprintf(a.out, "Project: %s %s\n", a.catalog.Project.Name, a.catalog.Project.Version)
	fmt.Fprintf(a.out, "Workflow categories: %d\n", len(a.catalog.Categories))
	fmt.Fprintf(a.out, "Workflows: %d\n", a.catalog.OperationCount())
	fmt.Fprintf(a.out, "Recognition intents: %d\n", len(a.catalog.Intents))

	count, err := a.recorder.Count()
	switch {
	case err != nil:
		fmt.Fprintf(a.out, "Activity log unreadable: %v\n", err)
	case count == 0:
		fmt.Fprintln(a.out, "No activity log entries")
	default:
		fmt.Fprintf(a.out, "Activity log entries: %d\n", count)
	}
	if !a.recorder.Enabled() {
		fmt.Fprintln(a.out, "Activity logging is disabled by the catalog")
	}

	if a.github != nil {
		fmt.Fprintf(a.out, "GitHub repository: %s\n", a.github.Repository())
	}

	if unknown := a.unregisteredActions(); len(unknown) > 0 {
		fmt.Fprintf(a.out, "Unknown actions (ignored): %s\n", strings.Join(unknown, ", "))
	}

	checker := cli.NewDependencyChecker(a.cfg.Debug)
	deps := checker.CheckInterpreters(a.launcher.Interpreters())
	cli.PrintDependencyStatus(a.out, deps)
	for _, dep := range cli.Missing(deps) {
		fmt.Fprintf(a.out, "Scripts ending in %s will fail until %s is installed\n", strings.Join(dep.Extensions, ", "), dep.Name)
	}

	fmt.Fprintf(a.out, "Platform: %s/%s\n", cli.GetPlatform(), cli.GetArch())
	return nil
}

// unregisteredActions lists the pre and post actions named in the catalog
// that no hook handles, in catalog order.
func (a *app) unregisteredActions() []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, op := range a.catalog.Operations() {
		for _, id := range append(append([]string{}, op.PreActions...), op.PostActions...) {
			if seen[id] || a.hooks.Has(id) {
				continue
			}
			seen[id] = true
			unknown = append(unknown, id)
		}
	}
	return unknown
}

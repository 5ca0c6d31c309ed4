package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgdnvk/flowctl/internal/match"
)

// selfTestCommands is the default battery, phrased the way the stock
// workflow-config.json keywords expect.
var selfTestCommands = []string{
	"Quero fazer commit das mudanças",
	"Verificar status do projeto",
	"Ativar ambiente Python",
	"Instalar dependências",
	"Rodar testes",
	"Monitorar GitHub",
}

var selfTestCmd = &cobra.Command{
	Use:   "selftest [command...]",
	Short: "Check recognition against a command battery",
	Long: `Run each command through intent recognition and keyword resolution and
print what was matched. Nothing is executed. Commands given as arguments
replace the built-in battery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAppFromViper(cmd)
		if err != nil {
			return err
		}
		a.selfTest(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selfTestCmd)
}

// selfTestResult is what recognition produced for one command.
type selfTestResult struct {
	Command  string
	Intent   string
	Workflow string
}

func (a *app) selfTestResults(commands []string) []selfTestResult {
	if len(commands) == 0 {
		commands = selfTestCommands
	}

	results := make([]selfTestResult, 0, len(commands))
	for _, c := range commands {
		r := selfTestResult{Command: c}
		// Matching here is a dry run and stays out of the activity log.
		if intent, ok := match.MatchIntent(c, a.catalog.Intents, nil); ok {
			r.Intent = intent.Action
		}
		if res, ok := match.ResolveByKeyword(c, a.catalog, nil); ok {
			r.Workflow = res.Op.Description
		}
		results = append(results, r)
	}
	return results
}

func (a *app) selfTest(commands []string) {
	fmt.Fprintln(a.out, "Recognition self-test")
	fmt.Fprintln(a.out, strings.Repeat("=", 50))

	for _, r := range a.selfTestResults(commands) {
		fmt.Fprintf(a.out, "\nCommand: '%s'\n", r.Command)
		if r.Intent != "" {
			fmt.Fprintf(a.out, "Intent: %s\n", r.Intent)
		} else {
			fmt.Fprintln(a.out, "Intent: none")
		}
		if r.Workflow != "" {
			fmt.Fprintf(a.out, "Workflow: %s\n", r.Workflow)
		} else {
			fmt.Fprintln(a.out, "Workflow not found")
		}
	}

	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(a.out, "Self-test complete")
}

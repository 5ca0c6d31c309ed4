package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bgdnvk/flowctl/internal/catalog"
	"github.com/bgdnvk/flowctl/internal/cli"
	"github.com/bgdnvk/flowctl/internal/match"
)

// processRequest handles one free-form request: it reports the recognized
// intent, then dispatches the keyword match or offers suggestions. It
// returns true when a workflow ran successfully.
func (a *app) processRequest(ctx context.Context, input string) bool {
	fmt.Fprintf(a.out, "\nProcessing: '%s'\n", input)

	if intent, ok := match.MatchIntent(input, a.catalog.Intents, a.recorder); ok {
		fmt.Fprintf(a.out, "Intent recognized: %s (confidence: %.2f)\n", intent.Action, intent.Confidence)
	}

	if res, ok := match.ResolveByKeyword(input, a.catalog, a.recorder); ok {
		return a.dispatcher.Dispatch(ctx, res.Op, true).Success
	}

	suggestions := match.Suggest(input, a.catalog, a.cfg.SuggestLimit)
	if len(suggestions) == 0 {
		suggestions = fuzzySuggestions(input, a.catalog, a.cfg.SuggestLimit)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(a.out, "No workflow found for this request")
		if hint := a.keywordHint(); hint != "" {
			fmt.Fprintf(a.out, "Try keywords such as: %s\n", hint)
		}
		return false
	}

	selected, ok, err := a.prompter.ChooseSuggestion(suggestions)
	if errors.Is(err, cli.ErrInvalidChoice) {
		fmt.Fprintln(a.out, "Invalid choice")
		return false
	}
	if err != nil || !ok {
		return false
	}
	return a.dispatcher.Dispatch(ctx, selected.Op, true).Success
}

// keywordHint returns the first keyword of up to four operations.
func (a *app) keywordHint() string {
	var words []string
	for _, op := range a.catalog.Operations() {
		if len(op.Keywords) == 0 {
			continue
		}
		words = append(words, op.Keywords[0])
		if len(words) == 4 {
			break
		}
	}
	return strings.Join(words, ", ")
}

// recognize reports the intent of text and offers to run the matching workflow.
func (a *app) recognize(ctx context.Context, text string) error {
	fmt.Fprintf(a.out, "Analyzing: '%s'\n", text)

	intent, ok := match.MatchIntent(text, a.catalog.Intents, a.recorder)
	if !ok {
		fmt.Fprintln(a.out, "Intent: none")
		fmt.Fprintln(a.out, "Command not recognized")
		if suggestions := match.Suggest(text, a.catalog, a.cfg.SuggestLimit); len(suggestions) > 0 {
			cli.PrintSuggestions(a.out, "Available workflows:", suggestions)
		}
		return nil
	}

	fmt.Fprintf(a.out, "Intent: %s (confidence: %.2f)\n", intent.Action, intent.Confidence)

	res, found := match.ResolveByKeyword(text, a.catalog, a.recorder)
	if !found {
		if suggestions := match.Suggest(text, a.catalog, a.cfg.SuggestLimit); len(suggestions) > 0 {
			cli.PrintSuggestions(a.out, "Suggested workflows:", suggestions)
		}
		return nil
	}

	fmt.Fprintf(a.out, "Suggested workflow: %s\n", res.Op.Description)
	run, err := a.prompter.YesNo("\nRun this workflow?")
	if err != nil || !run {
		return nil
	}
	// Already confirmed above.
	a.dispatcher.Dispatch(ctx, res.Op, false)
	return nil
}

// run dispatches the workflow matching text without asking for confirmation.
func (a *app) run(ctx context.Context, text string) error {
	fmt.Fprintf(a.out, "Running workflow: %s\n", text)

	op, ok := a.lookupKey(text)
	if !ok {
		res, found := match.ResolveByKeyword(text, a.catalog, a.recorder)
		if !found {
			fmt.Fprintln(a.out, "Workflow not found")
			if names := didYouMean(text, a.catalog, 3); len(names) > 0 {
				fmt.Fprintf(a.out, "Did you mean: %s?\n", strings.Join(names, ", "))
			}
			return fmt.Errorf("no workflow matches %q", text)
		}
		op = res.Op
	}

	outcome := a.dispatcher.Dispatch(ctx, op, false)
	if !outcome.Success {
		return fmt.Errorf("workflow %s failed: %s", op.Key(), outcome.Error)
	}
	return nil
}

// lookupKey resolves an exact "category.operation" key, the form used in
// activity log entries.
func (a *app) lookupKey(text string) (*catalog.Operation, bool) {
	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, " \t") {
		return nil, false
	}
	category, name, ok := strings.Cut(text, ".")
	if !ok {
		return nil, false
	}
	return a.catalog.Lookup(category, name)
}

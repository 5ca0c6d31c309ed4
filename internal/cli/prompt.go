package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bgdnvk/flowctl/internal/catalog"
	"github.com/bgdnvk/flowctl/internal/match"
)

// ErrInvalidChoice is returned when a suggestion choice is not a listed number.
var ErrInvalidChoice = errors.New("invalid choice")

// Prompter reads answers from a line-oriented input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Input returns the buffered reader answers are read from. Anything else
// that consumes the same stream must read through it.
func (p *Prompter) Input() io.Reader {
	return p.in
}

// ReadLine prints prompt and returns the next line without surrounding space.
// A final line without a newline is returned with a nil error.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo prompts the user for a yes/no response
func (p *Prompter) YesNo(question string) (bool, error) {
	response, err := p.ReadLine(fmt.Sprintf("%s (y/N): ", question))
	if err != nil {
		return false, err
	}
	return IsYes(response), nil
}

// IsYes reports whether response is an affirmative answer.
func IsYes(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes", "s", "sim":
		return true
	default:
		return false
	}
}

// Confirm asks whether op should run.
func (p *Prompter) Confirm(op *catalog.Operation) (bool, error) {
	return p.YesNo(fmt.Sprintf("Run %q?", op.Description))
}

// ChooseSuggestion lists suggestions and reads a 1-based choice. It returns
// ok=false when the user enters 'n'.
func (p *Prompter) ChooseSuggestion(suggestions []match.Suggestion) (match.Suggestion, bool, error) {
	PrintSuggestions(p.out, "Suggested workflows:", suggestions)

	choice, err := p.ReadLine("\nPick a workflow (number) or 'n' to cancel: ")
	if err != nil {
		return match.Suggestion{}, false, err
	}
	if strings.EqualFold(choice, "n") {
		return match.Suggestion{}, false, nil
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(suggestions) {
		return match.Suggestion{}, false, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	return suggestions[n-1], true, nil
}

// PrintSuggestions writes a numbered suggestion list under title
func PrintSuggestions(w io.Writer, title string, suggestions []match.Suggestion) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, s := range suggestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s.Description)
	}
}

// PrintDependencyStatus prints a summary of interpreter availability
func PrintDependencyStatus(w io.Writer, deps []DependencyStatus) {
	fmt.Fprintln(w, "\nInterpreters:")
	fmt.Fprintln(w, "-------------")

	for _, dep := range deps {
		icon := "+"
		if !dep.Installed {
			icon = "-"
		}

		version := dep.Version
		if version == "" && dep.Installed {
			version = dep.Path
		}
		if version == "" {
			version = "not installed"
		}

		fmt.Fprintf(w, "  [%s] %s: %s (%s)\n", icon, dep.Name, version, strings.Join(dep.Extensions, ", "))

		if dep.Message != "" {
			fmt.Fprintf(w, "      %s\n", dep.Message)
		}
	}

	fmt.Fprintln(w)
}

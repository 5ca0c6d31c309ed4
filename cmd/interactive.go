package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// interactive reads requests line by line until quit or end of input.
func (a *app) interactive(ctx context.Context) error {
	if isTerminal(a.in) {
		fmt.Fprintln(a.out, "flowctl - workflow assistant")
		fmt.Fprintln(a.out, strings.Repeat("=", 50))
		fmt.Fprintln(a.out, "Use --help to see every option")
		fmt.Fprintln(a.out, "\nType a request, or 'help' to list workflows")
		fmt.Fprintln(a.out, "Type 'quit' to exit")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := a.prompter.ReadLine("\nCommand: ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "sair":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		case "help", "ajuda":
			a.listWorkflows()
		case "":
			fmt.Fprintln(a.out, "Please enter a command")
		default:
			a.processRequest(ctx, line)
		}
	}
}

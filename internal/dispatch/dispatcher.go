// Package dispatch runs a selected workflow: its pre-actions, its external
// script and its post-actions.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
)

const stdinWaitDelay = 500 * time.Millisecond

// ErrCancelled is the outcome error when the caller declines to run a workflow.
const ErrCancelled = "cancelled by caller"

// Outcome is the result of one dispatch.
type Outcome struct {
	Success  bool
	ExitCode *int
	Error    string
}

// Confirmer asks the caller whether op should run.
type Confirmer interface {
	Confirm(op *catalog.Operation) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(op *catalog.Operation) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(op *catalog.Operation) (bool, error) { return f(op) }

// Dispatcher executes workflows relative to a project root.
type Dispatcher struct {
	root     string
	registry *Registry
	launcher *Launcher
	confirm  Confirmer
	rec      activity.Recorder

	out    io.Writer
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRegistry sets the pre/post action registry.
func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) { d.registry = r }
}

// WithLauncher sets the script launcher.
func WithLauncher(l *Launcher) Option {
	return func(d *Dispatcher) { d.launcher = l }
}

// WithConfirmer sets the confirmation prompt used for interactive dispatch.
func WithConfirmer(c Confirmer) Option {
	return func(d *Dispatcher) { d.confirm = c }
}

// WithRecorder sets the activity recorder.
func WithRecorder(rec activity.Recorder) Option {
	return func(d *Dispatcher) { d.rec = rec }
}

// WithOutput sets where progress messages go.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) { d.out = w }
}

// WithStdio sets the streams handed to the child process. When the caller
// also reads prompts from stdin through a buffer, stdin should be that
// buffer so lines it has already read ahead still reach the script.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		d.stdin = stdin
		d.stdout = stdout
		d.stderr = stderr
	}
}

// New creates a Dispatcher rooted at projectRoot. Without a confirmer,
// interactive dispatches are refused.
func New(projectRoot string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		root:     projectRoot,
		registry: NewRegistry(),
		launcher: NewLauncher(nil),
		rec:      activity.Nop{},
		out:      io.Discard,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProjectRoot returns the directory scripts are resolved against and run in.
func (d *Dispatcher) ProjectRoot() string {
	return d.root
}

// Dispatch runs op. It blocks until the script exits and never returns an
// internal failure other than as a failed Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, op *catalog.Operation, interactive bool) (outcome Outcome) {
	fmt.Fprintf(d.out, "\nWorkflow: %s\n", op.Description)

	if interactive && !d.confirmed(op) {
		fmt.Fprintln(d.out, "Execution cancelled.")
		d.rec.Record(activity.LevelWarning, fmt.Sprintf("Workflow %s cancelled by caller", op.Name))
		return Outcome{Error: ErrCancelled}
	}

	runID := uuid.NewString()[:8]
	defer func() {
		if r := recover(); r != nil {
			outcome = d.fault(op, runID, fmt.Errorf("panic: %v", r))
		}
	}()

	ac := ActionContext{
		Op:          op,
		ProjectRoot: d.root,
		RunID:       runID,
		Out:         d.out,
		Recorder:    d.rec,
	}

	if err := d.runActions(ctx, "pre", op.PreActions, ac); err != nil {
		return d.fault(op, runID, err)
	}

	if op.HasScript() {
		if result, done := d.runScript(ctx, op, runID); done {
			return result
		}
	}

	if err := d.runActions(ctx, "post", op.PostActions, ac); err != nil {
		return d.fault(op, runID, err)
	}

	fmt.Fprintln(d.out, "Workflow completed successfully.")
	d.rec.Record(activity.LevelInfo, fmt.Sprintf("Workflow %s executed successfully [run %s]", op.Name, runID))
	return Outcome{Success: true}
}

func (d *Dispatcher) confirmed(op *catalog.Operation) bool {
	if d.confirm == nil {
		return false
	}
	ok, err := d.confirm.Confirm(op)
	if err != nil {
		return false
	}
	return ok
}

func (d *Dispatcher) runActions(ctx context.Context, stage string, ids []string, ac ActionContext) error {
	if len(ids) == 0 {
		return nil
	}
	fmt.Fprintf(d.out, "Running %s-actions...\n", stage)
	for _, id := range ids {
		fmt.Fprintf(d.out, "  - %s\n", id)
		if err := d.registry.Lookup(id)(ctx, ac); err != nil {
			return fmt.Errorf("%s-action %s: %w", stage, id, err)
		}
	}
	return nil
}

// runScript executes the script. done is true when the dispatch must stop
// with result.
func (d *Dispatcher) runScript(ctx context.Context, op *catalog.Operation, runID string) (result Outcome, done bool) {
	path := d.ResolveScript(op.Script)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(d.out, "Script not found: %s\n", path)
			d.rec.Record(activity.LevelError, fmt.Sprintf("Script not found: %s", op.Script))
			return Outcome{Error: fmt.Sprintf("script not found: %s", path)}, true
		}
		return d.fault(op, runID, fmt.Errorf("checking script: %w", err)), true
	}

	argv, err := d.launcher.Command(path, op.Parameters)
	if err != nil {
		return d.fault(op, runID, err), true
	}

	fmt.Fprintf(d.out, "Running: %s %s\n", op.Script, op.Parameters)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Env stays nil so the child inherits ours, with PWD set to Dir.
	cmd.Dir = d.root
	cmd.Stdin = d.stdin
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr
	if _, ok := d.stdin.(*os.File); !ok && d.stdin != nil {
		// Stdin is copied by a goroutine that may block on a pipe nobody
		// closes; don't let it hold Wait once the script has exited.
		cmd.WaitDelay = stdinWaitDelay
	}

	err = cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			fmt.Fprintf(d.out, "Execution failed (code: %d)\n", code)
			d.rec.Record(activity.LevelError, fmt.Sprintf("Workflow %s failed: exit code %d [run %s]", op.Name, code, runID))
			return Outcome{ExitCode: &code, Error: fmt.Sprintf("execution failed, code=%d", code)}, true
		}
		return d.fault(op, runID, fmt.Errorf("starting %s: %w", argv[0], err)), true
	}

	return Outcome{}, false
}

// ResolveScript returns the absolute location of a script reference.
func (d *Dispatcher) ResolveScript(script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(d.root, script)
}

func (d *Dispatcher) fault(op *catalog.Operation, runID string, err error) Outcome {
	fmt.Fprintf(d.out, "Workflow error: %v\n", err)
	d.rec.Record(activity.LevelError, fmt.Sprintf("Execution error in %s: %v [run %s]", op.Name, err, runID))
	return Outcome{Error: err.Error()}
}

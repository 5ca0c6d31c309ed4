// Package hooks holds the built-in pre and post actions a catalog operation
// can name.
package hooks

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/dispatch"
	"github.com/bgdnvk/flowctl/internal/github"
)

// Action identifiers understood by this build.
const (
	AutoSaveFiles       = "auto_save_files"
	CheckGitStatus      = "check_git_status"
	ValidateChanges     = "validate_changes"
	UpdateNotifications = "update_notifications"
	LogActivity         = "log_activity"
	CheckCIStatus       = "check_ci_status"
)

// Options controls which optional hooks are registered.
type Options struct {
	// GitHub enables check_ci_status when set.
	GitHub *github.Client
	// CIRuns is how many workflow runs check_ci_status prints.
	CIRuns int
	// DisableAutoSave turns auto_save_files into a notice that saving is off.
	DisableAutoSave bool
}

// Register installs the built-in handlers into reg.
func Register(reg *dispatch.Registry, opts Options) {
	if opts.DisableAutoSave {
		reg.Register(AutoSaveFiles, notice("Auto-save disabled, skipping"))
	} else {
		reg.Register(AutoSaveFiles, notice("Saving files..."))
	}
	reg.Register(ValidateChanges, notice("Validating changes..."))
	reg.Register(UpdateNotifications, notice("Updating notifications..."))
	reg.Register(LogActivity, logActivity)
	reg.Register(CheckGitStatus, checkGitStatus)

	if opts.GitHub != nil {
		reg.Register(CheckCIStatus, checkCIStatus(opts.GitHub, opts.CIRuns))
	}
}

func notice(msg string) dispatch.ActionFunc {
	return func(_ context.Context, ac dispatch.ActionContext) error {
		fmt.Fprintf(ac.Out, "    %s\n", msg)
		return nil
	}
}

func logActivity(_ context.Context, ac dispatch.ActionContext) error {
	fmt.Fprintln(ac.Out, "    Recording activity...")
	if ac.Recorder != nil && ac.Op != nil {
		ac.Recorder.Record(activity.LevelInfo, fmt.Sprintf("Activity for %s [run %s]", ac.Op.Key(), ac.RunID))
	}
	return nil
}

// GitStatus summarizes a working tree.
type GitStatus struct {
	Branch    string
	Modified  int
	Untracked int
}

// ReadGitStatus inspects the repository containing root, which may be any
// directory inside the work tree. It returns gogit.ErrRepositoryNotExists
// when no enclosing repository is found.
func ReadGitStatus(root string) (GitStatus, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return GitStatus{}, err
	}

	var st GitStatus
	ref, err := repo.Head()
	switch {
	case err == nil:
		st.Branch = ref.Name().Short()
		if !ref.Name().IsBranch() {
			st.Branch = "detached at " + ref.Hash().String()[:7]
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		st.Branch = "(no commits)"
	default:
		return GitStatus{}, fmt.Errorf("reading HEAD: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return GitStatus{}, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return GitStatus{}, fmt.Errorf("reading worktree status: %w", err)
	}

	for _, fs := range status {
		switch {
		case fs.Worktree == gogit.Untracked:
			st.Untracked++
		case fs.Staging != gogit.Unmodified || fs.Worktree != gogit.Unmodified:
			st.Modified++
		}
	}
	return st, nil
}

func checkGitStatus(_ context.Context, ac dispatch.ActionContext) error {
	fmt.Fprintln(ac.Out, "    Checking git status...")

	st, err := ReadGitStatus(ac.ProjectRoot)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		fmt.Fprintf(ac.Out, "    %s is not a git repository\n", ac.ProjectRoot)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(ac.Out, "    branch %s, %d modified, %d untracked\n", st.Branch, st.Modified, st.Untracked)
	return nil
}

func checkCIStatus(client *github.Client, limit int) dispatch.ActionFunc {
	return func(ctx context.Context, ac dispatch.ActionContext) error {
		fmt.Fprintf(ac.Out, "    Checking CI for %s...\n", client.Repository())

		runs, err := client.RecentRuns(ctx, limit)
		if err != nil {
			// An unreachable API does not fail the workflow.
			fmt.Fprintf(ac.Out, "    CI status unavailable: %v\n", err)
			if ac.Recorder != nil {
				ac.Recorder.Record(activity.LevelWarning, fmt.Sprintf("CI status unavailable for %s: %v", client.Repository(), err))
			}
			return nil
		}
		if len(runs) == 0 {
			fmt.Fprintln(ac.Out, "    No workflow runs found")
			return nil
		}
		fmt.Fprint(ac.Out, github.FormatRuns(runs))
		return nil
	}
}

package hooks

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
	"github.com/bgdnvk/flowctl/internal/dispatch"
	"github.com/bgdnvk/flowctl/internal/github"
)

func actionContext(root string, out *bytes.Buffer, rec activity.Recorder) dispatch.ActionContext {
	return dispatch.ActionContext{
		Op:          &catalog.Operation{Category: "git_operations", Name: "commit"},
		ProjectRoot: root,
		RunID:       "abcd1234",
		Out:         out,
		Recorder:    rec,
	}
}

func TestRegister_Builtins(t *testing.T) {
	reg := dispatch.NewRegistry()
	Register(reg, Options{})

	assert.Equal(t, []string{AutoSaveFiles, CheckGitStatus, LogActivity, UpdateNotifications, ValidateChanges}, reg.IDs())
	assert.False(t, reg.Has(CheckCIStatus), "CI hook needs a GitHub client")

	Register(reg, Options{GitHub: github.NewClient("", "acme", "widgets")})
	assert.True(t, reg.Has(CheckCIStatus))
}

func TestNoticeHandlers(t *testing.T) {
	reg := dispatch.NewRegistry()
	Register(reg, Options{})

	tests := []struct {
		id   string
		want string
	}{
		{AutoSaveFiles, "Saving files..."},
		{ValidateChanges, "Validating changes..."},
		{UpdateNotifications, "Updating notifications..."},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, reg.Lookup(tt.id)(context.Background(), actionContext("", &out, nil)))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestAutoSave_Disabled(t *testing.T) {
	reg := dispatch.NewRegistry()
	Register(reg, Options{DisableAutoSave: true})

	var out bytes.Buffer
	require.NoError(t, reg.Lookup(AutoSaveFiles)(context.Background(), actionContext("", &out, nil)))
	assert.Contains(t, out.String(), "Auto-save disabled")
	assert.NotContains(t, out.String(), "Saving files...")
}

func TestLogActivity_RecordsEntry(t *testing.T) {
	var out bytes.Buffer
	var rec activity.Memory

	require.NoError(t, logActivity(context.Background(), actionContext("", &out, &rec)))

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, activity.LevelInfo, entries[0].Level)
	assert.Equal(t, "Activity for git_operations.commit [run abcd1234]", entries[0].Message)
}

func TestCheckGitStatus_NotARepository(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, checkGitStatus(context.Background(), actionContext(root, &out, nil)))
	assert.Contains(t, out.String(), "is not a git repository")
}

func TestReadGitStatus(t *testing.T) {
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	st, err := ReadGitStatus(root)
	require.NoError(t, err)
	assert.Equal(t, "(no commits)", st.Branch)

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o644))
	}
	write("tracked.txt", "v1")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("tracked.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.test", When: time.Now()},
	})
	require.NoError(t, err)

	write("tracked.txt", "v2")
	write("new.txt", "x")

	st, err = ReadGitStatus(root)
	require.NoError(t, err)
	assert.Equal(t, "master", st.Branch)
	assert.Equal(t, 1, st.Modified)
	assert.Equal(t, 1, st.Untracked)

	var out bytes.Buffer
	require.NoError(t, checkGitStatus(context.Background(), actionContext(root, &out, nil)))
	assert.Contains(t, out.String(), "branch master, 1 modified, 1 untracked")
}

func TestReadGitStatus_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	sub := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "main.go"), []byte("package main"), 0o644))

	st, err := ReadGitStatus(sub)
	require.NoError(t, err)
	assert.Equal(t, "(no commits)", st.Branch)
	assert.Equal(t, 1, st.Untracked)

	var out bytes.Buffer
	require.NoError(t, checkGitStatus(context.Background(), actionContext(sub, &out, nil)))
	assert.NotContains(t, out.String(), "is not a git repository")
}

func TestCheckCIStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"run_number":9,"display_title":"Build","status":"completed","conclusion":"success","head_branch":"main"}]}`))
	}))
	defer server.Close()

	client := github.NewClient("", "acme", "widgets")
	require.NoError(t, client.SetBaseURL(server.URL))

	var out bytes.Buffer
	require.NoError(t, checkCIStatus(client, 1)(context.Background(), actionContext("", &out, nil)))
	assert.Contains(t, out.String(), "Checking CI for acme/widgets")
	assert.Contains(t, out.String(), "Run #9: Build")
}

func TestCheckCIStatus_UnavailableIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := github.NewClient("", "acme", "widgets")
	require.NoError(t, client.SetBaseURL(server.URL))

	var out bytes.Buffer
	var rec activity.Memory
	require.NoError(t, checkCIStatus(client, 1)(context.Background(), actionContext("", &out, &rec)))
	assert.Contains(t, out.String(), "CI status unavailable")

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, activity.LevelWarning, entries[0].Level)
}

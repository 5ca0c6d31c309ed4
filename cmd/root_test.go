package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"recognize"}, "recognize"},
		{[]string{"run"}, "run"},
		{[]string{"list"}, "list"},
		{[]string{"selftest"}, "selftest"},
		{[]string{"status"}, "status"},
		{[]string{"config", "init"}, "init"},
		{[]string{"config", "show"}, "show"},
		{[]string{"github", "runs"}, "runs"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c, _, err := rootCmd.Find(tt.args)
			if err != nil {
				t.Fatalf("Find(%v) error = %v", tt.args, err)
			}
			if c.Name() != tt.want {
				t.Errorf("Find(%v) = %s, want %s", tt.args, c.Name(), tt.want)
			}
		})
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"recognize", "execute", "list", "test", "status"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("root flag --%s not defined", name)
		}
	}
	for _, name := range []string{"config", "debug", "project-root", "catalog", "log-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s not defined", name)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowctl.yaml")
	defer func() { cfgFile = "" }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "suggest_limit: 5") {
		t.Errorf("unexpected config content:\n%s", data)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("second init should not overwrite: %s", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Configuration file: "+path) {
		t.Errorf("show did not print the file:\n%s", out.String())
	}
}

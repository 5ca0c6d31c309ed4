package activity

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
}

func TestFormatEntry(t *testing.T) {
	got := FormatEntry(fixedClock(), LevelError, "Script not found: x.sh")
	want := "[2026-01-15 10:30:00] [ERROR] Script not found: x.sh\n"
	if got != want {
		t.Errorf("FormatEntry() = %q, want %q", got, want)
	}
}

func TestFileRecorder_AppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "workflow-automation.log")
	rec := NewFileRecorder(path, true)
	rec.Now = fixedClock

	rec.Record(LevelInfo, "first")
	rec.Record(LevelWarning, "second")
	rec.Record(LevelError, "third")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	expected := "[2026-01-15 10:30:00] [INFO] first\n" +
		"[2026-01-15 10:30:00] [WARNING] second\n" +
		"[2026-01-15 10:30:00] [ERROR] third\n"
	if string(content) != expected {
		t.Errorf("Content = %q, want %q", string(content), expected)
	}

	n, err := rec.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestFileRecorder_NeverRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	if err := os.WriteFile(path, []byte("existing line\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rec := NewFileRecorder(path, true)
	rec.Now = fixedClock
	rec.Record(LevelInfo, "appended")

	content, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(content), "existing line\n") {
		t.Errorf("existing content was rewritten: %q", string(content))
	}
}

func TestFileRecorder_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	rec := NewFileRecorder(path, false)
	rec.Record(LevelInfo, "dropped")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled recorder should not create the log file")
	}
	if rec.Enabled() {
		t.Error("Enabled() = true, want false")
	}
}

func TestFileRecorder_WriteFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	// A directory at the log path makes every open fail.
	path := filepath.Join(dir, "activity.log")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	var warn bytes.Buffer
	rec := NewFileRecorder(path, true)
	rec.Warn = &warn

	rec.Record(LevelInfo, "lost")

	if !strings.Contains(warn.String(), "could not write activity log") {
		t.Errorf("expected a warning, got %q", warn.String())
	}
}

func TestFileRecorder_CountMissingLog(t *testing.T) {
	rec := NewFileRecorder(filepath.Join(t.TempDir(), "none.log"), true)
	n, err := rec.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestFileRecorder_CountLongEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	rec := NewFileRecorder(path, true)
	rec.Now = fixedClock

	rec.Record(LevelInfo, "short")
	rec.Record(LevelError, "Workflow failed: "+strings.Repeat("x", 100*1024))
	rec.Record(LevelInfo, "after")

	n, err := rec.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\n\nb\n", 3},
	}
	for _, tt := range tests {
		got, err := countLines(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("countLines(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMemory_Entries(t *testing.T) {
	var m Memory
	m.Record(LevelInfo, "a")
	m.Record(LevelError, "b")

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(Entries()) = %d, want 2", len(entries))
	}
	if entries[1].Level != LevelError || entries[1].Message != "b" {
		t.Errorf("Entries()[1] = %+v", entries[1])
	}
}

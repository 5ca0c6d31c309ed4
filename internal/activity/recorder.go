// Package activity records recognized intents, matched workflows and dispatch
// outcomes to an append-only log.
package activity

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

const timestampLayout = "2006-01-02 15:04:05"

// Recorder is an append-only sink for activity entries. Implementations never
// fail the caller.
type Recorder interface {
	Record(level Level, message string)
}

// Nop discards every entry.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(Level, string) {}

// FileRecorder appends timestamped lines to a log file.
type FileRecorder struct {
	path    string
	enabled bool
	mu      sync.Mutex

	// Now and Warn are overridable for tests.
	Now  func() time.Time
	Warn io.Writer
}

// NewFileRecorder creates a recorder writing to path. When enabled is false
// every Record call is dropped.
func NewFileRecorder(path string, enabled bool) *FileRecorder {
	return &FileRecorder{
		path:    path,
		enabled: enabled,
		Now:     time.Now,
		Warn:    os.Stderr,
	}
}

// Path returns the log file location.
func (r *FileRecorder) Path() string {
	return r.path
}

// Enabled reports whether entries are written.
func (r *FileRecorder) Enabled() bool {
	return r.enabled
}

// Record appends one entry. Write failures are reported on Warn and swallowed.
func (r *FileRecorder) Record(level Level, message string) {
	if !r.enabled {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	line := FormatEntry(r.Now(), level, message)
	if err := r.append(line); err != nil {
		fmt.Fprintf(r.Warn, "Warning: could not write activity log: %v\n", err)
	}
}

func (r *FileRecorder) append(line string) error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}

// Count returns the number of entries in the log. A missing log counts as zero.
func (r *FileRecorder) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	n, err := countLines(f)
	if err != nil {
		return n, fmt.Errorf("reading activity log: %w", err)
	}
	return n, nil
}

// countLines counts newline-terminated lines plus a final unterminated one.
// Line length is unbounded.
func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	n := 0
	last := byte('\n')
	for {
		read, err := r.Read(buf)
		if read > 0 {
			n += bytes.Count(buf[:read], []byte{'\n'})
			last = buf[read-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
	}
	if last != '\n' {
		n++
	}
	return n, nil
}

// FormatEntry renders one log line, including the trailing newline.
func FormatEntry(ts time.Time, level Level, message string) string {
	return fmt.Sprintf("[%s] [%s] %s\n", ts.Format(timestampLayout), level, message)
}

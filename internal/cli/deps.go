// Package cli provides terminal prompts and interpreter detection.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"
)

// versionArgs lists interpreters that report a version without side effects.
var versionArgs = map[string][]string{
	"python":  {"--version"},
	"python3": {"--version"},
	"pwsh":    {"--version"},
	"ruby":    {"--version"},
	"node":    {"--version"},
	"bash":    {"--version"},
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// DependencyChecker handles detection of script interpreters
type DependencyChecker struct {
	debug    bool
	lookPath func(string) (string, error)
	timeout  time.Duration
}

// NewDependencyChecker creates a new dependency checker
func NewDependencyChecker(debug bool) *DependencyChecker {
	return &DependencyChecker{
		debug:    debug,
		lookPath: exec.LookPath,
		timeout:  2 * time.Second,
	}
}

// DependencyStatus represents the status of an interpreter
type DependencyStatus struct {
	Name       string
	Installed  bool
	Path       string
	Version    string
	Extensions []string
	Message    string
}

// CheckInterpreters checks every program named by the launcher table, keyed
// by extension. Programs shared by several extensions are checked once.
func (d *DependencyChecker) CheckInterpreters(interpreters map[string]string) []DependencyStatus {
	byProgram := make(map[string][]string)
	for ext, program := range interpreters {
		byProgram[program] = append(byProgram[program], ext)
	}

	programs := make([]string, 0, len(byProgram))
	for program := range byProgram {
		programs = append(programs, program)
	}
	sort.Strings(programs)

	out := make([]DependencyStatus, 0, len(programs))
	for _, program := range programs {
		exts := byProgram[program]
		sort.Strings(exts)
		status := d.Check(program)
		status.Extensions = exts
		out = append(out, status)
	}
	return out
}

// Missing filters statuses down to the programs that were not found.
func Missing(statuses []DependencyStatus) []DependencyStatus {
	var missing []DependencyStatus
	for _, dep := range statuses {
		if !dep.Installed {
			missing = append(missing, dep)
		}
	}
	return missing
}

// Check looks up a single program on PATH
func (d *DependencyChecker) Check(program string) DependencyStatus {
	status := DependencyStatus{Name: program}

	path, err := d.lookPath(program)
	if err != nil {
		status.Message = fmt.Sprintf("%s is not installed", program)
		return status
	}

	status.Installed = true
	status.Path = path

	args, ok := versionArgs[program]
	if !ok {
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		if d.debug {
			fmt.Printf("[deps] %s version probe failed: %v\n", program, err)
		}
		return status
	}

	status.Version = parseVersion(buf.String())
	return status
}

func parseVersion(output string) string {
	line := strings.TrimSpace(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return versionPattern.FindString(line)
}

// GetPlatform returns the current platform (darwin, linux, windows)
func GetPlatform() string {
	return runtime.GOOS
}

// GetArch returns the current architecture (amd64, arm64)
func GetArch() string {
	arch := runtime.GOARCH
	// Normalize architecture names
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

package dispatch

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ScriptPlaceholder is replaced by the resolved script path in a template.
const ScriptPlaceholder = "{script}"

// DefaultTemplates maps a script extension to the argv used to run it.
var DefaultTemplates = map[string][]string{
	".ps1": {"powershell", "-ExecutionPolicy", "Bypass", "-File", ScriptPlaceholder},
	".bat": {"cmd", "/C", ScriptPlaceholder},
	".cmd": {"cmd", "/C", ScriptPlaceholder},
	".sh":  {"sh", ScriptPlaceholder},
	".py":  {"python3", ScriptPlaceholder},
}

var directTemplate = []string{ScriptPlaceholder}

// Launcher builds argument vectors for scripts. No shell is involved, so the
// parameter string cannot inject extra commands.
type Launcher struct {
	templates map[string][]string
	// literalBackslashes keeps backslashes in parameters as path separators
	// instead of escape characters.
	literalBackslashes bool
}

// NewLauncher creates a launcher from the default table with overrides
// applied. Extension keys are matched case-insensitively.
func NewLauncher(overrides map[string][]string) *Launcher {
	l := &Launcher{
		templates:          make(map[string][]string, len(DefaultTemplates)+len(overrides)),
		literalBackslashes: runtime.GOOS == "windows",
	}
	for ext, tmpl := range DefaultTemplates {
		l.templates[ext] = tmpl
	}
	for ext, tmpl := range overrides {
		if len(tmpl) == 0 {
			continue
		}
		l.templates[normalizeExt(ext)] = tmpl
	}
	return l
}

// Template returns the argv template used for script.
func (l *Launcher) Template(script string) []string {
	if tmpl, ok := l.templates[normalizeExt(filepath.Ext(script))]; ok {
		return tmpl
	}
	return directTemplate
}

// Command returns the argv that runs script with the given parameter string.
// Parameters are split with shell quoting rules and appended in order.
// Unquoted shell operators such as ; | & are rejected. On Windows a
// backslash is literal, so C:\Users\me stays intact.
func (l *Launcher) Command(script, parameters string) ([]string, error) {
	input := parameters
	if l.literalBackslashes {
		input = escapeBackslashes(parameters)
	}
	parser := shellwords.NewParser()
	params, err := parser.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parsing parameters %q: %w", parameters, err)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("parameters %q contain a shell operator at offset %d", parameters, parser.Position)
	}

	tmpl := l.Template(script)
	argv := make([]string, 0, len(tmpl)+len(params))
	for _, part := range tmpl {
		argv = append(argv, strings.ReplaceAll(part, ScriptPlaceholder, script))
	}
	return append(argv, params...), nil
}

// Interpreters returns the distinct programs the templates rely on, keyed by
// extension. Direct templates are left out.
func (l *Launcher) Interpreters() map[string]string {
	out := make(map[string]string, len(l.templates))
	for ext, tmpl := range l.templates {
		if tmpl[0] == ScriptPlaceholder {
			continue
		}
		out[ext] = tmpl[0]
	}
	return out
}

// escapeBackslashes doubles every backslash outside single quotes, where
// the splitter already treats them literally.
func escapeBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	single, double := false, false
	for _, r := range s {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

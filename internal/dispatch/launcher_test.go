package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncher_Command(t *testing.T) {
	l := NewLauncher(nil)

	tests := []struct {
		name   string
		script string
		params string
		want   []string
	}{
		{
			name:   "powershell",
			script: "/p/scripts/commit.ps1",
			params: `-Message "auto commit"`,
			want:   []string{"powershell", "-ExecutionPolicy", "Bypass", "-File", "/p/scripts/commit.ps1", "-Message", "auto commit"},
		},
		{
			name:   "batch is case insensitive",
			script: "/p/activate-python.BAT",
			want:   []string{"cmd", "/C", "/p/activate-python.BAT"},
		},
		{
			name:   "shell",
			script: "/p/run.sh",
			params: "a 'b c'",
			want:   []string{"sh", "/p/run.sh", "a", "b c"},
		},
		{
			name:   "python",
			script: "/p/monitor.py",
			params: "--once",
			want:   []string{"python3", "/p/monitor.py", "--once"},
		},
		{
			name:   "native binary",
			script: "/p/bin/tool",
			params: "x",
			want:   []string{"/p/bin/tool", "x"},
		},
		{
			name:   "quoted operators stay literal",
			script: "/p/bin/tool",
			params: "'a;rm' \"x|y\"",
			want:   []string{"/p/bin/tool", "a;rm", "x|y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Command(tt.script, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLauncher_WindowsPaths(t *testing.T) {
	l := NewLauncher(nil)
	l.literalBackslashes = true

	tests := []struct {
		name   string
		params string
		want   []string
	}{
		{
			name:   "bare path",
			params: `-Path C:\Users\me\data -Name "x"`,
			want:   []string{"-Path", `C:\Users\me\data`, "-Name", "x"},
		},
		{
			name:   "double quoted path with spaces",
			params: `-Path "C:\Program Files\app"`,
			want:   []string{"-Path", `C:\Program Files\app`},
		},
		{
			name:   "single quoted path",
			params: `'C:\temp\x'`,
			want:   []string{`C:\temp\x`},
		},
		{
			name:   "unc share",
			params: `\\server\share`,
			want:   []string{`\\server\share`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Command(`C:\proj\run.ps1`, tt.params)
			require.NoError(t, err)
			want := append([]string{"powershell", "-ExecutionPolicy", "Bypass", "-File", `C:\proj\run.ps1`}, tt.want...)
			assert.Equal(t, want, got)
		})
	}

	_, err := l.Command(`C:\proj\run.ps1`, `C:\x & del C:\y`)
	assert.Error(t, err, "operators are still rejected")
}

func TestLauncher_RejectsBadParameters(t *testing.T) {
	for _, params := range []string{`"unterminated`, "a; rm -rf x", "a | tee out", "a && b"} {
		t.Run(params, func(t *testing.T) {
			_, err := NewLauncher(nil).Command("/p/run.sh", params)
			assert.Error(t, err)
		})
	}
}

func TestLauncher_Overrides(t *testing.T) {
	l := NewLauncher(map[string][]string{
		"py":   {"python", "-u", ScriptPlaceholder},
		".rb":  {"ruby", ScriptPlaceholder},
		".sh":  nil,
		".ps1": {},
	})

	got, err := l.Command("/p/a.py", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "-u", "/p/a.py"}, got)

	got, err = l.Command("/p/a.rb", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ruby", "/p/a.rb"}, got)

	assert.Equal(t, "sh", l.Template("x.sh")[0], "empty overrides keep the default")
	assert.Equal(t, "powershell", l.Template("x.ps1")[0])

	interpreters := l.Interpreters()
	assert.Equal(t, "ruby", interpreters[".rb"])
	assert.Equal(t, "python", interpreters[".py"])
}

func TestRegistry_UnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("nope"))
	assert.NoError(t, r.Lookup("nope")(context.Background(), ActionContext{}))

	called := false
	r.Register("b", func(context.Context, ActionContext) error { called = true; return nil })
	r.Register("a", func(context.Context, ActionContext) error { return nil })

	require.NoError(t, r.Lookup("b")(context.Background(), ActionContext{}))
	assert.True(t, called)
	assert.Equal(t, []string{"a", "b"}, r.IDs())
}

package cmd

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bgdnvk/flowctl/internal/catalog"
)

func suggestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cat
}

func TestDidYouMean(t *testing.T) {
	cat := suggestCatalog(t)

	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{name: "typo in keyword", input: "comit", limit: 3, want: []string{"git_operations.commit"}},
		{name: "typo inside a sentence", input: "please pusj the branch", limit: 3, want: []string{"git_operations.push"}},
		{name: "operation name with spaces", input: "unit test", limit: 3, want: []string{"testing.unit_tests"}},
		{name: "nothing close", input: "xyzzy", limit: 3, want: []string{}},
		{name: "empty input", input: "  ", limit: 3, want: []string{}},
		{name: "zero limit", input: "comit", limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := didYouMean(tt.input, cat, tt.limit)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("didYouMean(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"commit", "commit", 1},
		{"comit", "commit", 1 - 1.0/6},
		{"", "", 0},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		if got := similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCategoryTitle(t *testing.T) {
	tests := map[string]string{
		"git_operations":     "Git Operations",
		"python_environment": "Python Environment",
		"monitoring":         "Monitoring",
	}
	for in, want := range tests {
		if got := categoryTitle(in); got != want {
			t.Errorf("categoryTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAppConfigDefaults(t *testing.T) {
	root := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "audit.log")

	cfg, err := appConfig{
		ProjectRoot: root,
		CatalogPath: "conf/flows.json",
		LogFile:     logPath,
	}.withDefaults()
	if err != nil {
		t.Fatalf("withDefaults() error = %v", err)
	}

	if cfg.CatalogPath != filepath.Join(root, "conf", "flows.json") {
		t.Errorf("CatalogPath = %s", cfg.CatalogPath)
	}
	if cfg.LogFile != logPath {
		t.Errorf("LogFile = %s, want %s", cfg.LogFile, logPath)
	}
	if cfg.SuggestLimit != 5 {
		t.Errorf("SuggestLimit = %d, want 5", cfg.SuggestLimit)
	}

	cfg, err = appConfig{ProjectRoot: root}.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogPath != filepath.Join(root, defaultCatalogName) || cfg.LogFile != filepath.Join(root, defaultLogName) {
		t.Errorf("default paths = %s, %s", cfg.CatalogPath, cfg.LogFile)
	}
}

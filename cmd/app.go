package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
	"github.com/bgdnvk/flowctl/internal/cli"
	"github.com/bgdnvk/flowctl/internal/dispatch"
	"github.com/bgdnvk/flowctl/internal/github"
	"github.com/bgdnvk/flowctl/internal/hooks"
	"github.com/bgdnvk/flowctl/internal/match"
)

const (
	defaultCatalogName = "workflow-config.json"
	defaultLogName     = "workflow-automation.log"
)

// appConfig is the resolved runtime configuration.
type appConfig struct {
	ProjectRoot  string
	CatalogPath  string
	LogFile      string
	SuggestLimit int
	Launchers    map[string][]string
	Debug        bool

	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubAPIURL string
	CIRuns       int
}

// loadAppConfig reads the settings from viper and fills in path defaults.
func loadAppConfig() (appConfig, error) {
	cfg := appConfig{
		ProjectRoot:  viper.GetString("project_root"),
		CatalogPath:  viper.GetString("catalog"),
		LogFile:      viper.GetString("log_file"),
		SuggestLimit: viper.GetInt("suggest_limit"),
		Launchers:    viper.GetStringMapStringSlice("launchers"),
		Debug:        viper.GetBool("debug"),
		GitHubToken:  viper.GetString("github.token"),
		GitHubOwner:  viper.GetString("github.owner"),
		GitHubRepo:   viper.GetString("github.repo"),
		GitHubAPIURL: viper.GetString("github.api_url"),
		CIRuns:       viper.GetInt("github.ci_runs"),
	}
	return cfg.withDefaults()
}

func (c appConfig) withDefaults() (appConfig, error) {
	if c.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("error finding working directory: %w", err)
		}
		c.ProjectRoot = wd
	}
	root, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return c, fmt.Errorf("invalid project root %q: %w", c.ProjectRoot, err)
	}
	c.ProjectRoot = root

	c.CatalogPath = c.underRoot(c.CatalogPath, defaultCatalogName)
	c.LogFile = c.underRoot(c.LogFile, defaultLogName)

	if c.SuggestLimit == 0 {
		c.SuggestLimit = match.DefaultSuggestLimit
	}
	return c, nil
}

func (c appConfig) underRoot(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

// app wires the catalog, matcher, recorder and dispatcher for one invocation.
type app struct {
	cfg        appConfig
	catalog    *catalog.Catalog
	loadErr    error
	recorder   *activity.FileRecorder
	launcher   *dispatch.Launcher
	dispatcher *dispatch.Dispatcher
	prompter   *cli.Prompter
	github     *github.Client
	hooks      *dispatch.Registry

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newAppFromViper(cmd *cobra.Command) (*app, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// newApp builds the components. A missing or malformed catalog is reported
// on errOut and replaced with the default catalog.
func newApp(cfg appConfig, in io.Reader, out, errOut io.Writer) (*app, error) {
	a := &app{cfg: cfg, in: in, out: out, errOut: errOut}

	a.catalog, a.loadErr = catalog.LoadOrDefault(cfg.CatalogPath)
	if a.loadErr != nil {
		if errors.Is(a.loadErr, catalog.ErrNotFound) {
			fmt.Fprintf(errOut, "Catalog not found: %s\n", cfg.CatalogPath)
		} else {
			fmt.Fprintf(errOut, "Error loading catalog: %v\n", a.loadErr)
		}
	}

	a.recorder = activity.NewFileRecorder(cfg.LogFile, a.catalog.Settings.LoggingEnabled())
	a.recorder.Warn = errOut

	a.launcher = dispatch.NewLauncher(cfg.Launchers)
	a.prompter = cli.NewPrompter(in, out)

	if cfg.GitHubOwner != "" && cfg.GitHubRepo != "" {
		a.github = github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo)
		if cfg.GitHubAPIURL != "" {
			if err := a.github.SetBaseURL(cfg.GitHubAPIURL); err != nil {
				return nil, err
			}
		}
	}

	registry := dispatch.NewRegistry()
	hooks.Register(registry, hooks.Options{
		GitHub:          a.github,
		CIRuns:          cfg.CIRuns,
		DisableAutoSave: !a.catalog.Settings.AutoSaveEnabled(),
	})
	a.hooks = registry

	// A terminal delivers one line per read, so the prompter never holds
	// input meant for the script. Anything else is shared through its buffer.
	childIn := in
	if !isTerminal(in) {
		childIn = a.prompter.Input()
	}

	a.dispatcher = dispatch.New(cfg.ProjectRoot,
		dispatch.WithRegistry(registry),
		dispatch.WithLauncher(a.launcher),
		dispatch.WithConfirmer(a.prompter),
		dispatch.WithRecorder(a.recorder),
		dispatch.WithOutput(out),
		dispatch.WithStdio(childIn, out, errOut),
	)

	if cfg.Debug {
		fmt.Fprintf(out, "[debug] project root: %s\n", cfg.ProjectRoot)
		fmt.Fprintf(out, "[debug] catalog: %s (%d operations, %d intents)\n", cfg.CatalogPath, a.catalog.OperationCount(), len(a.catalog.Intents))
		fmt.Fprintf(out, "[debug] activity log: %s (enabled: %v)\n", cfg.LogFile, a.recorder.Enabled())
		fmt.Fprintf(out, "[debug] hooks: %v\n", registry.IDs())
	}

	return a, nil
}

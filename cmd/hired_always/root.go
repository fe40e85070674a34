package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/browser"
	"github.com/jonathan/hired-always/internal/config"
	"github.com/jonathan/hired-always/internal/llm"
	"github.com/jonathan/hired-always/internal/observability"
	"github.com/jonathan/hired-always/internal/profile"
	"github.com/jonathan/hired-always/internal/tracker"
)

// app carries the settings every command resolves before it runs.
type app struct {
	configPath string
	flags      config.Config
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hired_always",
		Short: "Autofill job applications and track where you applied",
		Long: `hired_always fills job application forms from your profile (or with an AI
solver), extracts job metadata from posting pages and keeps a local tracker of
submitted applications.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values; GEMINI_API_KEY, DATABASE_URL and
HIRED_TOKEN are read from the environment or a .env file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	pf.StringVar(&a.flags.ProfilePath, "profile", "", "Path to the profile YAML file")
	pf.StringVar(&a.flags.TrackerPath, "tracker", "", "Path to the SQLite tracker database")
	pf.StringVar(&a.flags.DatabaseURL, "db-url", "", "PostgreSQL tracker URL (defaults to DATABASE_URL env var)")
	pf.StringVar(&a.flags.APIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	pf.StringVar(&a.flags.Model, "model", "", "Gemini model used by the AI solver")
	pf.StringVar(&a.flags.RemoteURL, "remote", "", "DevTools websocket URL of a running Chrome")
	pf.BoolVar(&a.flags.Headless, "headless", false, "Run a locally started Chrome headless")
	pf.StringVar(&a.flags.Timeout, "timeout", "", "Timeout per browser round trip, e.g. 30s")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "Print detailed debug information")

	root.AddCommand(
		newFieldsCmd(a),
		newExtractCmd(a),
		newFillCmd(a),
		newServeCmd(a),
		newTrackCmd(a),
		newProfileCmd(a),
	)
	return root
}

// load merges the config file, explicit flags, environment and defaults, in
// that order of precedence from flags down.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"profile", func() { cfg.ProfilePath = a.flags.ProfilePath }},
		{"tracker", func() { cfg.TrackerPath = a.flags.TrackerPath }},
		{"db-url", func() { cfg.DatabaseURL = a.flags.DatabaseURL }},
		{"api-key", func() { cfg.APIKey = a.flags.APIKey }},
		{"model", func() { cfg.Model = a.flags.Model }},
		{"remote", func() { cfg.RemoteURL = a.flags.RemoteURL }},
		{"headless", func() { cfg.Headless = a.flags.Headless }},
		{"timeout", func() { cfg.Timeout = a.flags.Timeout }},
		{"verbose", func() { cfg.Verbose = a.flags.Verbose }},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.apply()
		}
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printer returns the verbose summary printer, or nil when not verbose.
func (a *app) printer(cmd *cobra.Command) *observability.Printer {
	if !a.cfg.Verbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}

func (a *app) profiles() *profile.FileStore {
	return profile.NewFileStore(a.cfg.ProfilePath, a.logger)
}

// openTracker uses Postgres when a database URL is configured and the local
// SQLite file otherwise.
func (a *app) openTracker(ctx context.Context) (*tracker.Tracker, error) {
	if a.cfg.DatabaseURL != "" {
		store, err := tracker.ConnectPostgres(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return tracker.New(store, a.logger), nil
	}
	store, err := tracker.OpenSQLite(ctx, a.cfg.TrackerPath)
	if err != nil {
		return nil, err
	}
	return tracker.New(store, a.logger), nil
}

// newFiller wires the profile store and, when an API key is configured, the
// AI solver. The returned func releases the solver's client.
func (a *app) newFiller(ctx context.Context) (*autofill.Filler, func(), error) {
	if a.cfg.APIKey == "" {
		a.logger.Debug("cli: no API key, AI solver disabled")
		return autofill.New(a.profiles(), nil, a.logger), func() {}, nil
	}
	llmCfg := llm.DefaultConfig()
	if a.cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierLite, a.cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, a.cfg.APIKey, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	filler := autofill.New(a.profiles(), llm.NewSolver(client, a.logger), a.logger)
	return filler, func() { _ = client.Close() }, nil
}

// openTab starts or attaches to Chrome and opens one tab.
func (a *app) openTab(ctx context.Context) (*browser.Tab, func(), error) {
	b, err := browser.New(ctx, browser.Options{
		RemoteURL: a.cfg.RemoteURL,
		Headless:  a.cfg.Headless,
		Timeout:   a.timeout(),
	}, a.logger)
	if err != nil {
		return nil, nil, err
	}
	tab, err := b.NewTab()
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return tab, func() {
		tab.Close()
		b.Close()
	}, nil
}

func (a *app) timeout() time.Duration {
	if d := a.cfg.BrowserTimeout(); d > 0 {
		return d
	}
	return browser.DefaultTimeout
}

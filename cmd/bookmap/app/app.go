// Package app provides the application context and dependency management
// for the bookmap CLI: configuration, logging and a lazily created
// catalog client shared by every command.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/alerts"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the bookmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// command output, os.Stdout and os.Stderr when nil
	out    io.Writer
	errOut io.Writer

	// client is created on first use
	mu     sync.Mutex
	client bookmap.Client
}

// New creates an App, loading configuration from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig(configFileFromArgs(os.Args[1:]))
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}
	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Output }

// ServerAddr returns the configured API listen address.
func (a *App) ServerAddr() string { return a.config.ServerAddr }

// Client returns the catalog client, creating it on first use.
func (a *App) Client() (bookmap.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}
	c, err := bookmap.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// ClientWithOptions creates a separate client. The caller closes it.
func (a *App) ClientWithOptions(opts ...bookmap.Option) (bookmap.Client, error) {
	c, err := bookmap.New(append(a.clientOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "with custom options", err)
	}
	return c, nil
}

// Shutdown stops watching and closes the shared client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
		return err
	}
	return nil
}

// clientOptions builds client options from the configuration.
func (a *App) clientOptions() []bookmap.Option {
	backend, _ := kv.ParseBackend(a.config.StoreBackend)

	opts := []bookmap.Option{
		bookmap.WithStoreBackend(backend, a.config.StorePath),
		bookmap.WithBaseURL(a.config.BaseURL),
		bookmap.WithCoversURL(a.config.CoversURL),
		bookmap.WithHTTPTimeout(a.config.HTTPTimeout),
		bookmap.WithPollInterval(a.config.PollInterval),
		bookmap.WithFeedLimit(a.config.FeedLimit),
		bookmap.WithNotifyCooldown(a.config.NotifyCooldown),
		bookmap.WithSearchLimit(a.config.SearchLimit),
		bookmap.WithSearchCacheTTL(a.config.SearchCacheTTL),
		bookmap.WithLogger(a.logger),
	}
	if !a.config.Quiet {
		// toasts go to stderr so structured stdout stays parseable
		w := alerts.NewFormatWriter(os.Stderr, output.FormatTable)
		if a.config.NoColor {
			w = w.WithConfig(alerts.WriterConfig{ShowDetails: true})
		}
		opts = append(opts, bookmap.WithToaster(alerts.Toaster(w)))
	}
	return opts
}

// configFileFromArgs finds --config before cobra parses flags.
func configFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case len(arg) > len("--config=") && arg[:len("--config=")] == "--config=":
			return arg[len("--config="):]
		}
	}
	return ""
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) error {
		a.out, a.errOut = out, errOut
		return nil
	}
}

// WithClient sets the client, for tests.
func WithClient(c bookmap.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

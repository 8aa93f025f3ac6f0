// Package serve provides the serve command.
package serve

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/server"
	"github.com/agentstation/bookmap/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the local HTTP API",
		Long: `Serve starts a local HTTP API over the catalog client.

Endpoints:
  GET    /health
  GET    /api/search?q=&offset=&limit=&sort=
  GET    /api/works/{id}
  GET    /api/favorites           POST /api/favorites
  DELETE /api/favorites[/{key}]
  GET    /api/notifications       POST /api/notifications/read
  POST   /api/notifications/{id}/read
  DELETE /api/notifications[/{id}]
  GET    /api/theme               PUT  /api/theme
  GET    /api/events              (Server-Sent Events: toast, changes)

  PUT    /api/browse              (sort/view changes, returns the URL query)

The change feeds are watched while serving unless --watch=false.`,
		Example: `  bookmap serve
  bookmap serve --addr :8080 --cors
  bookmap serve --cors-origins https://app.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	cmd.Flags().Bool("watch", true, "watch the change feeds while serving")
	cmd.Flags().Bool("cors", false, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "allowed CORS origins (comma-separated)")
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().Duration("search-debounce", constants.DefaultDebounce,
		"quiet period before a search is announced, 0 to announce every search")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface) error {
	addr, _ := cmd.Flags().GetString("addr")
	watch, _ := cmd.Flags().GetBool("watch")
	corsEnabled, _ := cmd.Flags().GetBool("cors")
	corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
	readTimeout, _ := cmd.Flags().GetDuration("read-timeout")
	writeTimeout, _ := cmd.Flags().GetDuration("write-timeout")
	idleTimeout, _ := cmd.Flags().GetDuration("idle-timeout")
	debounce, _ := cmd.Flags().GetDuration("search-debounce")

	if addr == "" {
		addr = app.ServerAddr()
	}

	// front-ends search as the user types
	client, err := app.ClientWithOptions(bookmap.WithSearchDebounce(debounce))
	if err != nil {
		return err
	}
	defer client.Close()

	cfg := server.DefaultConfig()
	cfg.Addr = addr
	cfg.CORSEnabled = corsEnabled || len(corsOrigins) > 0
	cfg.CORSOrigins = corsOrigins
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.IdleTimeout = idleTimeout

	logger := app.Logger()
	logger.Info().
		Str("addr", addr).
		Bool("cors", cfg.CORSEnabled).
		Bool("watch", watch).
		Msg("Starting API server")

	srv := server.New(client, cfg, logger)
	if watch {
		if err := client.WatchOn(); err != nil {
			return err
		}
		defer func() { _ = client.WatchOff() }()
	}

	return srv.ListenAndServe(cmd.Context())
}

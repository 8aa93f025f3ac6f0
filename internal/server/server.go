// Package server provides the local HTTP API over a bookmap client.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/internal/server/sse"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/notifications"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	client    bookmap.Client
	events    *sse.Broadcaster
	toasters  []notifications.Toaster
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithToaster also delivers toasts to t, next to the event stream.
func WithToaster(t notifications.Toaster) Option {
	return func(s *Server) {
		if t != nil {
			s.toasters = append(s.toasters, t)
		}
	}
}

// ToastEvent is the payload of a toast event.
type ToastEvent struct {
	Type       notifications.Type `json:"type"`
	Title      string             `json:"title"`
	Message    string             `json:"message"`
	DurationMS int64              `json:"durationMs"`
}

// ChangesEvent is the payload of a changes event.
type ChangesEvent struct {
	Count  int                 `json:"count"`
	Events []books.ChangeEvent `json:"events"`
}

// New creates a server for client. It installs the server as the client's
// toaster and subscribes to new change events.
func New(client bookmap.Client, cfg Config, logger *zerolog.Logger, opts ...Option) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		client:    client,
		events:    sse.NewBroadcaster(logger),
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.connectHooks()
	return s
}

// connectHooks routes client toasts and change events to the stream.
func (s *Server) connectHooks() {
	s.client.SetToaster(notifications.ToasterFunc(func(ctx context.Context, t notifications.Toast) {
		s.events.Publish(sse.EventToast, ToastEvent{
			Type:       t.Type,
			Title:      t.Title,
			Message:    t.Message,
			DurationMS: t.Duration.Milliseconds(),
		})
		for _, other := range s.toasters {
			other.Toast(ctx, t)
		}
	}))

	s.client.OnNewChanges(func(_ context.Context, events []books.ChangeEvent) {
		s.events.Publish(sse.EventChanges, ChangesEvent{Count: len(events), Events: events})
		s.logger.Debug().Int("count", len(events)).Msg("Change events published")
	})
}

// Start starts the event broadcaster.
func (s *Server) Start() {
	go s.events.Run(s.ctx)
}

// Handler returns the router with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.Start()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return s.ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.cancel()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	// close event streams first so Shutdown does not wait on them
	s.cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("API server shutdown timed out")
		return err
	}
	s.logger.Info().Msg("API server stopped")
	return nil
}

// Shutdown stops the broadcaster and closes every event stream.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Events returns the SSE broadcaster.
func (s *Server) Events() *sse.Broadcaster {
	return s.events
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

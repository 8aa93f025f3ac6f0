package server

import (
	"time"

	"github.com/agentstation/bookmap/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// HTTP timeouts. WriteTimeout does not apply to the event stream.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            constants.DefaultServerAddr,
		CORSEnabled:     false,
		CORSOrigins:     []string{},
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

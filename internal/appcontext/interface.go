// Package appcontext provides the application context interface used by
// all commands, so command packages depend on one definition of what the
// app provides.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap"
)

// Interface defines what commands need from the application. The App
// in cmd/bookmap/app implements it; tests use Mock.
type Interface interface {
	// Client returns the catalog client, creating it lazily.
	Client() (bookmap.Client, error)

	// ClientWithOptions creates a separate client with extra options on
	// top of the configured ones. The caller closes it.
	ClientWithOptions(...bookmap.Option) (bookmap.Client, error)

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format.
	OutputFormat() string

	// ServerAddr returns the configured API listen address.
	ServerAddr() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

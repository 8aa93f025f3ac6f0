package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/pkg/constants"
)

// Mock implements Interface for command tests. A nil function field
// makes its method return a zero or default value.
type Mock struct {
	ClientFunc            func() (bookmap.Client, error)
	ClientWithOptionsFunc func(...bookmap.Option) (bookmap.Client, error)
	LoggerFunc            func() *zerolog.Logger
	OutputFormatValue     string
	ServerAddrValue       string
	VersionFunc           func() string
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (bookmap.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// ClientWithOptions returns a client using the mock function, falling
// back to Client.
func (m *Mock) ClientWithOptions(opts ...bookmap.Option) (bookmap.Client, error) {
	if m.ClientWithOptionsFunc != nil {
		return m.ClientWithOptionsFunc(opts...)
	}
	return m.Client()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns OutputFormatValue.
func (m *Mock) OutputFormat() string {
	return m.OutputFormatValue
}

// ServerAddr returns ServerAddrValue or the default address.
func (m *Mock) ServerAddr() string {
	if m.ServerAddrValue != "" {
		return m.ServerAddrValue
	}
	return constants.DefaultServerAddr
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

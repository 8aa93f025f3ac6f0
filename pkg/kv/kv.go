// Package kv provides the durable key/value persistence used for favorites,
// the notification log, preferences and change-feed markers.
//
// Values are opaque strings. Three backends are provided: an in-memory map
// for tests and ephemeral sessions, a JSON file written atomically, and an
// SQLite database.
package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentstation/bookmap/pkg/errors"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Available backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// String returns the backend name.
func (b Backend) String() string {
	return string(b)
}

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendMemory, BackendFile, BackendSQLite:
		return b, nil
	case "":
		return BackendFile, nil
	default:
		return "", errors.NewValidationError("store_backend", s, fmt.Sprintf("unknown backend %q", s))
	}
}

// Open opens a store of the given backend at path. Path is ignored for memory.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, errors.NewValidationError("store_backend", backend, "unknown backend")
	}
}

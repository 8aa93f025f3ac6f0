// Package constants provides shared constants used throughout the bookmap codebase.
// This includes API endpoints, timeouts, limits, retention policies and
// durable storage keys that must stay consistent across the library and CLI.
package constants

import "time"

// Open Library endpoints
const (
	// OpenLibraryURL is the base URL of the Open Library API
	OpenLibraryURL = "https://openlibrary.org"

	// CoversURL is the base URL of the Open Library covers service
	CoversURL = "https://covers.openlibrary.org"

	// UserAgent identifies bookmap to the Open Library API
	UserAgent = "bookmap/1.0 (+https://github.com/agentstation/bookmap)"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the Open Library API
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout bounds graceful shutdown of the local HTTP server
	ShutdownTimeout = 5 * time.Second
)

// Change feed polling
const (
	// DefaultPollInterval is the interval between change feed ticks
	DefaultPollInterval = 10 * time.Second

	// DefaultFeedLimit is the number of events requested from each feed per tick
	DefaultFeedLimit = 5

	// DefaultNotifyCooldown is the minimum spacing between change notifications of one kind
	DefaultNotifyCooldown = 60 * time.Second
)

// Search constants
const (
	// DefaultSearchLimit is the default page size for catalog searches
	DefaultSearchLimit = 20

	// MaxSearchLimit is the largest page size accepted by the search API
	MaxSearchLimit = 100

	// DefaultSearchQuery is sent when the query text is blank
	DefaultSearchQuery = "type:work"

	// SearchFields is the fixed field list requested from the search API
	SearchFields = "key,title,author_name,author_key,cover_i,first_publish_year,publisher,isbn,number_of_pages_median,subject,description"

	// DefaultDebounce is the quiet period before a typed query is searched
	DefaultDebounce = 500 * time.Millisecond
)

// Notification retention
const (
	// MaxNotifications is the maximum number of retained notification records
	MaxNotifications = 50

	// NotificationMaxAge is the age after which notification records are dropped
	NotificationMaxAge = 7 * 24 * time.Hour
)

// Cache constants
const (
	// SearchCacheTTL is the time-to-live of cached search responses
	SearchCacheTTL = 2 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Durable storage keys
const (
	// KeyFavorites holds the favorites blob
	KeyFavorites = "bookmap.favorites"

	// KeyNotifications holds the notification log
	KeyNotifications = "bookmap.notifications"

	// KeyTheme holds the theme preference
	KeyTheme = "bookmap.theme"

	// KeyLastAddID holds the last seen add-book event id
	KeyLastAddID = "bookmap.lastSeenAddId"

	// KeyLastEditID holds the last seen edit-book event id
	KeyLastEditID = "bookmap.lastSeenEditId"
)

// Path constants
const (
	// DefaultDataDir is the default directory for local bookmap state
	DefaultDataDir = "~/.bookmap"

	// DefaultStoreFile is the default JSON file store name inside DefaultDataDir
	DefaultStoreFile = "state.json"

	// DefaultDBFile is the default SQLite store name inside DefaultDataDir
	DefaultDBFile = "bookmap.db"
)

// Server constants
const (
	// DefaultServerAddr is the default listen address of the local API server
	DefaultServerAddr = "127.0.0.1:8787"

	// SSEKeepAlive is the interval between SSE keep-alive comments
	SSEKeepAlive = 15 * time.Second

	// EventBufferSize is the buffer size of broadcast channels
	EventBufferSize = 64
)

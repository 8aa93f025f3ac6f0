package bookmap

import (
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/notifications"
)

// options holds the configuration of a client.
type options struct {
	store        kv.Store
	storeBackend kv.Backend
	storePath    string

	baseURL     string
	coversURL   string
	httpClient  *http.Client
	httpTimeout time.Duration
	userAgent   string

	pollInterval   time.Duration
	feedLimit      int
	watchOnStart   bool
	notifyCooldown time.Duration

	searchLimit    int
	searchCacheTTL time.Duration
	searchDebounce time.Duration

	clock   clock.Clock
	toaster notifications.Toaster
	logger  *zerolog.Logger
}

func defaults() *options {
	return &options{
		storeBackend:   kv.BackendMemory,
		baseURL:        constants.OpenLibraryURL,
		coversURL:      constants.CoversURL,
		httpTimeout:    constants.DefaultHTTPTimeout,
		userAgent:      constants.UserAgent,
		pollInterval:   constants.DefaultPollInterval,
		feedLimit:      constants.DefaultFeedLimit,
		notifyCooldown: constants.DefaultNotifyCooldown,
		searchLimit:    constants.DefaultSearchLimit,
		searchCacheTTL: constants.SearchCacheTTL,
		clock:          clock.WallClock,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option configures a Client.
type Option func(*options) error

// WithStore uses an already opened store. The client does not close it.
func WithStore(s kv.Store) Option {
	return func(o *options) error {
		if s == nil {
			return errors.NewValidationError("store", nil, "store must not be nil")
		}
		o.store = s
		return nil
	}
}

// WithStoreBackend opens a store of the given backend at path.
func WithStoreBackend(backend kv.Backend, path string) Option {
	return func(o *options) error {
		o.storeBackend = backend
		o.storePath = path
		return nil
	}
}

// WithBaseURL sets the Open Library API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) error {
		if u == "" {
			return errors.NewValidationError("baseURL", u, "base URL must not be empty")
		}
		o.baseURL = u
		return nil
	}
}

// WithCoversURL sets the cover image base URL.
func WithCoversURL(u string) Option {
	return func(o *options) error {
		o.coversURL = u
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("httpTimeout", d, "timeout must be positive")
		}
		o.httpTimeout = d
		return nil
	}
}

// WithPollInterval configures how often the change feeds are polled.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("pollInterval", d, "poll interval must be positive")
		}
		o.pollInterval = d
		return nil
	}
}

// WithFeedLimit configures how many events are requested per feed.
func WithFeedLimit(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("feedLimit", n, "feed limit must be positive")
		}
		o.feedLimit = n
		return nil
	}
}

// WithWatch configures whether polling starts with the client.
func WithWatch(enabled bool) Option {
	return func(o *options) error {
		o.watchOnStart = enabled
		return nil
	}
}

// WithNotifyCooldown sets the minimum gap between change notifications of
// the same kind.
func WithNotifyCooldown(d time.Duration) Option {
	return func(o *options) error {
		o.notifyCooldown = d
		return nil
	}
}

// WithSearchLimit sets the default page size.
func WithSearchLimit(n int) Option {
	return func(o *options) error {
		if n <= 0 || n > constants.MaxSearchLimit {
			return errors.NewValidationError("searchLimit", n, "search limit must be between 1 and 100")
		}
		o.searchLimit = n
		return nil
	}
}

// WithSearchCacheTTL sets how long search responses are reused.
func WithSearchCacheTTL(d time.Duration) Option {
	return func(o *options) error {
		o.searchCacheTTL = d
		return nil
	}
}

// WithSearchDebounce delays the "Search Results Updated" notification until
// searching has been quiet for d, so a burst of searches notifies once with
// the last result. Zero, the default, notifies every search.
func WithSearchDebounce(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("searchDebounce", d, "search debounce must not be negative")
		}
		o.searchDebounce = d
		return nil
	}
}

// WithClock sets the clock driving polling and notification timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c != nil {
			o.clock = c
		}
		return nil
	}
}

// WithToaster sets where toasts are shown.
func WithToaster(t notifications.Toaster) Option {
	return func(o *options) error {
		o.toaster = t
		return nil
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// Package bookmap provides the main entry point for the Open Library
// catalog client. It offers a high-level interface over catalog search,
// favorites, the notification log, display preferences and background
// watching of the recent-changes feeds.
//
// Example usage:
//
//	bm, err := bookmap.New(
//	    bookmap.WithStoreBackend(kv.BackendFile, "~/.bookmap/state.json"),
//	    bookmap.WithPollInterval(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bm.Close()
//
//	bm.OnNewChanges(func(ctx context.Context, events []books.ChangeEvent) {
//	    log.Printf("%d new changes", len(events))
//	})
//	if err := bm.WatchOn(); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := bm.Search(ctx, openlibrary.Query{Text: "dune"})
package bookmap

import (
	"context"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/changes"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/favorites"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
	"github.com/agentstation/bookmap/pkg/notifications"
	"github.com/agentstation/bookmap/pkg/openlibrary"
	"github.com/agentstation/bookmap/pkg/prefs"
	"github.com/agentstation/bookmap/pkg/search"
)

// Client is the catalog client.
type Client interface {

	// Searcher runs catalog searches and work lookups
	Searcher

	// Shelf manages favorites
	Shelf

	// Inbox manages the notification log
	Inbox

	// Preferences manages the theme and browse settings
	Preferences

	// Watcher controls background polling of the change feeds
	Watcher

	// Hooks provides access to event callback registration
	Hooks

	// Close stops polling and releases the store when the client opened it.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	store     kv.Store
	ownsStore bool

	api       *openlibrary.Client
	search    *search.Service
	typing    *search.Debouncer // nil unless search notifications are debounced
	favorites *favorites.Store
	notifier  *notifications.Notifier
	theme     *prefs.ThemeStore
	markers   *changes.KVMarkers
	poller    *changes.Poller

	hooks *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}

	c := &client{options: o, hooks: newHooks()}

	c.store = o.store
	if c.store == nil {
		if c.store, err = kv.Open(o.storeBackend, o.storePath); err != nil {
			return nil, errors.WrapResource("open", "store", o.storePath, err)
		}
		c.ownsStore = true
	}

	apiOpts := []openlibrary.Option{
		openlibrary.WithBaseURL(o.baseURL),
		openlibrary.WithTimeout(o.httpTimeout),
		openlibrary.WithUserAgent(o.userAgent),
	}
	if o.coversURL != "" {
		apiOpts = append(apiOpts, openlibrary.WithCoversURL(o.coversURL))
	}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, openlibrary.WithHTTPClient(o.httpClient))
	}
	c.api = openlibrary.New(apiOpts...)

	c.search = search.NewService(c.api,
		search.WithCacheTTL(o.searchCacheTTL),
		search.WithLogger(o.logger),
	)
	if o.searchDebounce > 0 {
		c.typing = search.NewDebouncer(o.clock, o.searchDebounce)
	}
	c.favorites = favorites.New(c.store, favorites.WithLogger(o.logger))
	c.theme = prefs.NewThemeStore(c.store, o.logger)

	log := notifications.NewLog(c.store,
		notifications.WithLogClock(o.clock),
		notifications.WithLogLogger(o.logger),
	)
	c.notifier = notifications.NewNotifier(log,
		notifications.WithToaster(o.toaster),
		notifications.WithCooldown(o.notifyCooldown),
		notifications.WithNotifierLogger(o.logger),
	)

	c.markers = changes.NewKVMarkers(c.store)
	c.poller, err = changes.NewPoller(c.api, c.markers,
		changes.WithInterval(o.pollInterval),
		changes.WithLimit(o.feedLimit),
		changes.WithClock(o.clock),
		changes.WithLogger(o.logger),
	)
	if err != nil {
		_ = c.closeStore()
		return nil, errors.WrapResource("create", "poller", "", err)
	}

	o.logger.Debug().
		Str("base_url", o.baseURL).
		Str("store", string(o.storeBackend)).
		Dur("poll_interval", o.pollInterval).
		Msg("Client created")

	if o.watchOnStart {
		if err := c.WatchOn(); err != nil {
			_ = c.closeStore()
			return nil, errors.WrapResource("start", "watch", "", err)
		}
	}
	return c, nil
}

// Close stops polling and closes an owned store.
func (c *client) Close() error {
	c.poller.Stop()
	if c.typing != nil {
		c.typing.Cancel()
	}
	return c.closeStore()
}

func (c *client) closeStore() error {
	if !c.ownsStore {
		return nil
	}
	return c.store.Close()
}

// handleChanges fans new events out to the notifier and registered hooks.
func (c *client) handleChanges(ctx context.Context, events []books.ChangeEvent) {
	c.notifier.NotifyChanges(ctx, events)
	c.hooks.triggerNewChanges(ctx, events)
}

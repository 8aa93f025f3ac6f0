package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/internal/cache"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Toast durations.
const (
	ToastDuration       = 3 * time.Second
	ChangeToastDuration = 5 * time.Second
)

// Cooldown keys for change notifications.
const (
	CooldownBooksAdded   = "new-books-added"
	CooldownBooksUpdated = "books-updated"
)

// Toast is a transient message shown to the user.
type Toast struct {
	Type     Type          `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Toaster displays toasts.
type Toaster interface {
	Toast(ctx context.Context, t Toast)
}

// ToasterFunc adapts a function to Toaster.
type ToasterFunc func(ctx context.Context, t Toast)

// Toast calls f.
func (f ToasterFunc) Toast(ctx context.Context, t Toast) {
	f(ctx, t)
}

// discard drops every toast.
var discard = ToasterFunc(func(context.Context, Toast) {})

// Notifier records notifications in a Log and mirrors them as toasts.
type Notifier struct {
	log      *Log
	cooldown time.Duration
	recent   *cache.Cache[struct{}]
	logger   *zerolog.Logger

	mu      sync.RWMutex
	toaster Toaster
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithToaster sets the toast sink.
func WithToaster(t Toaster) NotifierOption {
	return func(n *Notifier) {
		if t != nil {
			n.toaster = t
		}
	}
}

// WithCooldown sets the minimum gap between change notifications of the
// same kind. Zero disables the cooldown.
func WithCooldown(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d >= 0 {
			n.cooldown = d
		}
	}
}

// WithNotifierLogger sets the logger.
func WithNotifierLogger(l *zerolog.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNotifier returns a notifier writing to log.
func NewNotifier(log *Log, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		log:      log,
		cooldown: constants.DefaultNotifyCooldown,
		logger:   logging.Default(),
		toaster:  discard,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.recent = cache.New[struct{}](n.cooldown, constants.CacheCleanupInterval)
	return n
}

// Log returns the underlying notification log.
func (n *Notifier) Log() *Log {
	return n.log
}

// SetToaster replaces the toast sink.
func (n *Notifier) SetToaster(t Toaster) {
	if t == nil {
		t = discard
	}
	n.mu.Lock()
	n.toaster = t
	n.mu.Unlock()
}

func (n *Notifier) toast(ctx context.Context, t Toast) {
	n.mu.RLock()
	toaster := n.toaster
	n.mu.RUnlock()
	toaster.Toast(ctx, t)
}

// notify logs a record and shows the matching toast. A failed write is
// logged and the toast is still shown.
func (n *Notifier) notify(ctx context.Context, typ Type, title, message string, d time.Duration) {
	if _, _, err := n.log.Add(ctx, typ, title, message); err != nil {
		n.logger.Warn().Err(err).Str("title", title).Msg("Failed to record notification")
	}
	n.toast(ctx, Toast{Type: typ, Title: title, Message: message, Duration: d})
}

// allow reports whether a change notification for key may fire now and
// starts its cooldown when it does.
func (n *Notifier) allow(key string) bool {
	if n.cooldown <= 0 {
		return true
	}
	return n.recent.Reserve(key, struct{}{}, n.cooldown)
}

// NotifyChanges emits at most one notification per change kind present in
// events, subject to the cooldown.
func (n *Notifier) NotifyChanges(ctx context.Context, events []books.ChangeEvent) {
	var adds, edits int
	for _, e := range events {
		switch e.Kind {
		case books.KindAdd:
			adds++
		case books.KindEdit:
			edits++
		}
	}

	if adds > 0 {
		if n.allow(CooldownBooksAdded) {
			n.notify(ctx, TypeInfo, "New Books Added", "Some new books have been added to Open Library", ChangeToastDuration)
		} else {
			n.logger.Debug().Int("count", adds).Msg("New books notification suppressed by cooldown")
		}
	}
	if edits > 0 {
		if n.allow(CooldownBooksUpdated) {
			n.notify(ctx, TypeInfo, "Books Updated", "Some books have been updated in Open Library", ChangeToastDuration)
		} else {
			n.logger.Debug().Int("count", edits).Msg("Books updated notification suppressed by cooldown")
		}
	}
}

// FavoriteAdded notifies that book was added to favorites.
func (n *Notifier) FavoriteAdded(ctx context.Context, book books.Book) {
	n.notify(ctx, TypeSuccess, "Book Added to Favorites",
		fmt.Sprintf("%q has been added to your favorites!", book.Title), ToastDuration)
}

// FavoriteRemoved notifies that book was removed from favorites.
func (n *Notifier) FavoriteRemoved(ctx context.Context, book books.Book) {
	n.notify(ctx, TypeInfo, "Book Removed from Favorites",
		fmt.Sprintf("%q has been removed from your favorites.", book.Title), ToastDuration)
}

// SearchResultsUpdated notifies the result count of a new search.
func (n *Notifier) SearchResultsUpdated(ctx context.Context, query string, found int) {
	n.notify(ctx, TypeInfo, "Search Results Updated",
		fmt.Sprintf("Found %d books for %q", found, query), ToastDuration)
}

// ThemeChanged notifies a theme switch.
func (n *Notifier) ThemeChanged(ctx context.Context, theme books.Theme) {
	n.notify(ctx, TypeSuccess, "Theme Updated",
		fmt.Sprintf("Switched to %s theme", theme), ToastDuration)
}

// SortChanged notifies a sort order change.
func (n *Notifier) SortChanged(ctx context.Context, sort books.SortOption) {
	n.notify(ctx, TypeInfo, "Sort Order Changed",
		fmt.Sprintf("Books now sorted by: %s", sort.Label()), ToastDuration)
}

// ViewModeChanged notifies a view mode change.
func (n *Notifier) ViewModeChanged(ctx context.Context, view books.ViewMode) {
	n.notify(ctx, TypeInfo, "View Mode Changed",
		fmt.Sprintf("Switched to %s view", view), ToastDuration)
}

package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/logging"
)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *toastRecorder) Toast(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *toastRecorder) all() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast{}, r.toasts...)
}

func newNotifier(t *testing.T, cooldown time.Duration) (*Notifier, *toastRecorder) {
	t.Helper()
	l, _, _ := newLog(t)
	rec := &toastRecorder{}
	n := NewNotifier(l,
		WithToaster(rec),
		WithCooldown(cooldown),
		WithNotifierLogger(logging.NewNopLogger()),
	)
	return n, rec
}

func events(kinds ...books.Kind) []books.ChangeEvent {
	out := make([]books.ChangeEvent, 0, len(kinds))
	for i, k := range kinds {
		out = append(out, books.ChangeEvent{ID: string(rune('a' + i)), Kind: k})
	}
	return out
}

func TestNotifyChangesOnePerKind(t *testing.T) {
	ctx := context.Background()
	n, rec := newNotifier(t, 0)

	n.NotifyChanges(ctx, events(books.KindAdd, books.KindAdd, books.KindEdit))

	toasts := rec.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, "New Books Added", toasts[0].Title)
	assert.Equal(t, "Some new books have been added to Open Library", toasts[0].Message)
	assert.Equal(t, ChangeToastDuration, toasts[0].Duration)
	assert.Equal(t, "Books Updated", toasts[1].Title)

	snap := n.Log().List(ctx)
	assert.Len(t, snap.Records, 2)
	assert.Equal(t, 2, snap.Unread)
}

func TestNotifyChangesEmptyIsSilent(t *testing.T) {
	n, rec := newNotifier(t, 0)
	n.NotifyChanges(context.Background(), nil)
	assert.Empty(t, rec.all())
	assert.Empty(t, n.Log().List(context.Background()).Records)
}

func TestNotifyChangesCooldown(t *testing.T) {
	ctx := context.Background()
	n, rec := newNotifier(t, time.Hour)

	n.NotifyChanges(ctx, events(books.KindAdd))
	n.NotifyChanges(ctx, events(books.KindAdd))
	n.NotifyChanges(ctx, events(books.KindEdit))

	toasts := rec.all()
	require.Len(t, toasts, 2, "second add is suppressed, edit has its own cooldown")
	assert.Equal(t, "New Books Added", toasts[0].Title)
	assert.Equal(t, "Books Updated", toasts[1].Title)
}

func TestNotifyChangesCooldownExpires(t *testing.T) {
	ctx := context.Background()
	n, rec := newNotifier(t, 20*time.Millisecond)

	n.NotifyChanges(ctx, events(books.KindAdd))
	time.Sleep(60 * time.Millisecond)
	n.NotifyChanges(ctx, events(books.KindAdd))

	assert.Len(t, rec.all(), 2)
}

func TestUserActionMessages(t *testing.T) {
	ctx := context.Background()
	n, rec := newNotifier(t, 0)
	dune := books.Book{Key: "/works/OL893415W", Title: "Dune"}

	n.FavoriteAdded(ctx, dune)
	n.FavoriteRemoved(ctx, dune)
	n.SearchResultsUpdated(ctx, "dune", 42)
	n.ThemeChanged(ctx, books.ThemeDark)
	n.SortChanged(ctx, books.SortNewest)
	n.ViewModeChanged(ctx, books.ViewList)

	toasts := rec.all()
	require.Len(t, toasts, 6)

	tests := []struct {
		typ     Type
		title   string
		message string
	}{
		{TypeSuccess, "Book Added to Favorites", `"Dune" has been added to your favorites!`},
		{TypeInfo, "Book Removed from Favorites", `"Dune" has been removed from your favorites.`},
		{TypeInfo, "Search Results Updated", `Found 42 books for "dune"`},
		{TypeSuccess, "Theme Updated", "Switched to dark theme"},
		{TypeInfo, "Sort Order Changed", "Books now sorted by: " + books.SortNewest.Label()},
		{TypeInfo, "View Mode Changed", "Switched to list view"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.typ, toasts[i].Type, tt.title)
		assert.Equal(t, tt.title, toasts[i].Title)
		assert.Equal(t, tt.message, toasts[i].Message)
		assert.Equal(t, ToastDuration, toasts[i].Duration)
	}

	snap := n.Log().List(ctx)
	require.Len(t, snap.Records, 6)
	assert.Equal(t, "View Mode Changed", snap.Records[0].Title, "newest first")
}

func TestSetToasterNilDiscards(t *testing.T) {
	n, rec := newNotifier(t, 0)
	n.SetToaster(nil)
	n.ThemeChanged(context.Background(), books.ThemeLight)
	assert.Empty(t, rec.all())
	assert.Len(t, n.Log().List(context.Background()).Records, 1)
}

package bookmap

import (
	"context"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/favorites"
)

// Compile-time interface check to ensure proper implementation.
var _ Shelf = (*client)(nil)

// Shelf manages the favorites set.
type Shelf interface {
	// Favorites returns the persisted favorites.
	Favorites(ctx context.Context) favorites.Set

	// IsFavorite reports whether key is a favorite.
	IsFavorite(ctx context.Context, key string) bool

	// AddFavorite adds book. Adding a present book is a no-op.
	AddFavorite(ctx context.Context, book books.Book) (favorites.Set, error)

	// RemoveFavorite removes key. Removing an absent key is a no-op.
	RemoveFavorite(ctx context.Context, key string) (favorites.Set, error)

	// ToggleFavorite adds book when absent and removes it when present.
	ToggleFavorite(ctx context.Context, book books.Book) (favorites.Set, bool, error)

	// ClearFavorites removes every favorite.
	ClearFavorites(ctx context.Context) (favorites.Set, error)
}

// Favorites returns the persisted favorites.
func (c *client) Favorites(ctx context.Context) favorites.Set {
	return c.favorites.List(ctx)
}

// IsFavorite reports whether key is a favorite.
func (c *client) IsFavorite(ctx context.Context, key string) bool {
	return c.favorites.Contains(ctx, key)
}

// AddFavorite adds book and notifies when the set changed.
func (c *client) AddFavorite(ctx context.Context, book books.Book) (favorites.Set, error) {
	set, added, err := c.favorites.Add(ctx, book)
	if err != nil {
		return set, err
	}
	if added {
		c.notifier.FavoriteAdded(ctx, book)
	}
	return set, nil
}

// RemoveFavorite removes key and notifies when a book was removed.
func (c *client) RemoveFavorite(ctx context.Context, key string) (favorites.Set, error) {
	set, removed, err := c.favorites.Remove(ctx, key)
	if err != nil {
		return set, err
	}
	if removed != nil {
		c.notifier.FavoriteRemoved(ctx, *removed)
	}
	return set, nil
}

// ToggleFavorite flips the favorite state of book and reports whether it
// is a favorite afterwards.
func (c *client) ToggleFavorite(ctx context.Context, book books.Book) (favorites.Set, bool, error) {
	if c.favorites.Contains(ctx, book.Key) {
		set, err := c.RemoveFavorite(ctx, book.Key)
		return set, false, err
	}
	set, err := c.AddFavorite(ctx, book)
	return set, err == nil, err
}

// ClearFavorites removes every favorite.
func (c *client) ClearFavorites(ctx context.Context) (favorites.Set, error) {
	return c.favorites.Clear(ctx)
}

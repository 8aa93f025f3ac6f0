package bookmap

import (
	"context"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Preferences = (*client)(nil)

// Preferences manages display settings.
type Preferences interface {
	// Theme returns the stored theme, light by default.
	Theme(ctx context.Context) books.Theme

	// SetTheme stores theme and notifies the switch.
	SetTheme(ctx context.Context, theme books.Theme) error

	// ToggleTheme switches between light and dark.
	ToggleTheme(ctx context.Context) (books.Theme, error)

	// ChangeSort notifies a new sort order.
	ChangeSort(ctx context.Context, sort books.SortOption) error

	// ChangeView notifies a new view mode.
	ChangeView(ctx context.Context, view books.ViewMode) error
}

// Theme returns the stored theme, falling back to light.
func (c *client) Theme(ctx context.Context) books.Theme {
	return c.theme.Theme(ctx)
}

// SetTheme stores theme and records a "Theme Updated" notification.
func (c *client) SetTheme(ctx context.Context, theme books.Theme) error {
	if err := c.theme.SetTheme(ctx, theme); err != nil {
		return err
	}
	c.notifier.ThemeChanged(ctx, theme)
	return nil
}

// ToggleTheme flips between light and dark, stores the result and notifies
// the switch like SetTheme.
func (c *client) ToggleTheme(ctx context.Context) (books.Theme, error) {
	theme, err := c.theme.ToggleTheme(ctx)
	if err != nil {
		return theme, err
	}
	c.notifier.ThemeChanged(ctx, theme)
	return theme, nil
}

// ChangeSort validates sort and notifies the change. Sort order lives in
// the URL state, so nothing is persisted.
func (c *client) ChangeSort(ctx context.Context, sort books.SortOption) error {
	if !sort.Valid() {
		return errors.NewValidationError("sort", sort, "unknown sort order")
	}
	c.notifier.SortChanged(ctx, sort)
	return nil
}

// ChangeView validates view and notifies the change.
func (c *client) ChangeView(ctx context.Context, view books.ViewMode) error {
	if !view.Valid() {
		return errors.NewValidationError("view", view, "unknown view mode")
	}
	c.notifier.ViewModeChanged(ctx, view)
	return nil
}

package bookmap

import (
	"context"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Watcher = (*client)(nil)

// Watcher provides controls for background polling of the change feeds.
type Watcher interface {
	// WatchOn begins polling. It is a no-op when already watching.
	WatchOn() error

	// WatchOff stops polling and waits for an in-flight poll to finish.
	WatchOff() error

	// Watching reports whether polling is active.
	Watching() bool

	// CheckNow runs one poll cycle in the caller's goroutine.
	CheckNow(ctx context.Context) ([]books.ChangeEvent, error)

	// ResetMarkers forgets the last-seen change ids.
	ResetMarkers(ctx context.Context) error
}

// WatchOn begins polling. New events go to the notifier and to the hooks
// registered with OnNewChanges.
func (c *client) WatchOn() error {
	if c.options.pollInterval <= 0 {
		return &errors.ValidationError{
			Field:   "pollInterval",
			Value:   c.options.pollInterval,
			Message: "poll interval must be positive",
		}
	}
	c.poller.Start(c.handleChanges)
	return nil
}

// WatchOff stops polling.
func (c *client) WatchOff() error {
	c.poller.Stop()
	return nil
}

// Watching reports whether polling is active.
func (c *client) Watching() bool {
	return c.poller.IsRunning()
}

// CheckNow runs one poll cycle and delivers its events like a background
// tick would. It refuses to run while background polling is active so that
// cycles never overlap.
func (c *client) CheckNow(ctx context.Context) ([]books.ChangeEvent, error) {
	ctx = logging.WithLogger(ctx, c.options.logger)
	events, err := c.poller.TickIdle(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(events) > 0 {
		c.handleChanges(ctx, events)
	}
	return events, nil
}

// ResetMarkers forgets the last-seen change ids. The next cycle reports the
// full page of each feed.
func (c *client) ResetMarkers(ctx context.Context) error {
	return c.markers.Reset(ctx)
}

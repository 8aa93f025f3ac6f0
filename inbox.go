package bookmap

import (
	"context"

	"github.com/agentstation/bookmap/pkg/notifications"
)

// Compile-time interface check to ensure proper implementation.
var _ Inbox = (*client)(nil)

// Inbox manages the notification log.
type Inbox interface {
	Notifications(ctx context.Context) notifications.Snapshot
	MarkRead(ctx context.Context, id string) (notifications.Snapshot, error)
	MarkAllRead(ctx context.Context) (notifications.Snapshot, error)
	RemoveNotification(ctx context.Context, id string) (notifications.Snapshot, error)
	ClearNotifications(ctx context.Context) (notifications.Snapshot, error)

	// SetToaster replaces where toasts are shown.
	SetToaster(t notifications.Toaster)
}

func (c *client) Notifications(ctx context.Context) notifications.Snapshot {
	return c.notifier.Log().List(ctx)
}

func (c *client) MarkRead(ctx context.Context, id string) (notifications.Snapshot, error) {
	return c.notifier.Log().MarkRead(ctx, id)
}

func (c *client) MarkAllRead(ctx context.Context) (notifications.Snapshot, error) {
	return c.notifier.Log().MarkAllRead(ctx)
}

func (c *client) RemoveNotification(ctx context.Context, id string) (notifications.Snapshot, error) {
	return c.notifier.Log().Remove(ctx, id)
}

func (c *client) ClearNotifications(ctx context.Context) (notifications.Snapshot, error) {
	return c.notifier.Log().Clear(ctx)
}

func (c *client) SetToaster(t notifications.Toaster) {
	c.notifier.SetToaster(t)
}

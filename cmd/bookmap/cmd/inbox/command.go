// Package inbox provides the notifications command.
package inbox

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/notifications"
)

// NewCommand creates the notifications command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif", "inbox"},
		GroupID: "management",
		Short:   "Show and manage the notification log",
		Long: `The notification log keeps the latest 50 notifications for up to
seven days. Ids are shown with -o wide.`,
		Example: `  bookmap notifications
  bookmap notifications read --all
  bookmap notifications remove 3f2b...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, app)
		},
	}

	read := &cobra.Command{
		Use:   "read [id...]",
		Short: "Mark notifications as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("give notification ids or --all")
			}
			return mutate(cmd, app, func(c store) (notifications.Snapshot, error) {
				if all {
					return c.MarkAllRead(cmd.Context())
				}
				return each(args, func(id string) (notifications.Snapshot, error) {
					return c.MarkRead(cmd.Context(), id)
				})
			})
		},
	}
	read.Flags().Bool("all", false, "mark every notification as read")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notifications, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return list(cmd, app)
			},
		},
		read,
		&cobra.Command{
			Use:     "remove <id>...",
			Aliases: []string{"rm"},
			Short:   "Remove notifications",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, app, func(c store) (notifications.Snapshot, error) {
					return each(args, func(id string) (notifications.Snapshot, error) {
						return c.RemoveNotification(cmd.Context(), id)
					})
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every notification",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return mutate(cmd, app, func(c store) (notifications.Snapshot, error) {
					return c.ClearNotifications(cmd.Context())
				})
			},
		},
	)

	return cmd
}

// store is the part of the client these commands mutate.
type store interface {
	MarkRead(ctx context.Context, id string) (notifications.Snapshot, error)
	MarkAllRead(ctx context.Context) (notifications.Snapshot, error)
	RemoveNotification(ctx context.Context, id string) (notifications.Snapshot, error)
	ClearNotifications(ctx context.Context) (notifications.Snapshot, error)
}

func list(cmd *cobra.Command, app appcontext.Interface) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	return render(cmd, client.Notifications(cmd.Context()))
}

func mutate(cmd *cobra.Command, app appcontext.Interface, fn func(store) (notifications.Snapshot, error)) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	snap, err := fn(client)
	if err != nil {
		return err
	}
	return render(cmd, snap)
}

// each applies fn to every id and returns the last snapshot.
func each(ids []string, fn func(string) (notifications.Snapshot, error)) (notifications.Snapshot, error) {
	var snap notifications.Snapshot
	for _, id := range ids {
		var err error
		if snap, err = fn(id); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func render(cmd *cobra.Command, snap notifications.Snapshot) error {
	flags := globals.Parse(cmd)
	if flags.Structured() {
		return output.Render(cmd.OutOrStdout(), flags.Format(), snap, nil)
	}
	if len(snap.Records) == 0 {
		cmd.PrintErrln("No notifications.")
		return nil
	}
	if err := output.Render(cmd.OutOrStdout(), flags.Format(), snap, func() output.Data {
		return output.NotificationsToData(snap)
	}); err != nil {
		return err
	}
	if !flags.Quiet {
		cmd.PrintErrf("\n%d unread\n", snap.Unread)
	}
	return nil
}

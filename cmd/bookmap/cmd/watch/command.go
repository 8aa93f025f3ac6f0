// Package watch provides the watch command.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/books"
)

// NewCommand creates the watch command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: "core",
		Short:   "Watch the Open Library change feeds",
		Long: `Watch polls the recent-changes feeds for added and edited books and
prints new events as they arrive. New events also raise "New Books Added"
and "Books Updated" notifications.

The first check after --reset, or on a fresh store, reports every event in
the feed window.`,
		Example: `  bookmap watch
  bookmap watch --interval 1m
  bookmap watch --once -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().Duration("interval", 0, "poll interval (default from config)")
	cmd.Flags().Bool("once", false, "check once and exit")
	cmd.Flags().Bool("reset", false, "forget the last seen events first")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	once, _ := cmd.Flags().GetBool("once")
	reset, _ := cmd.Flags().GetBool("reset")

	var (
		client bookmap.Client
		err    error
	)
	if interval > 0 {
		client, err = app.ClientWithOptions(bookmap.WithPollInterval(interval))
		if err == nil {
			defer client.Close()
		}
	} else {
		client, err = app.Client()
	}
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if reset {
		if err := client.ResetMarkers(ctx); err != nil {
			return err
		}
	}

	flags := globals.Parse(cmd)
	var mu sync.Mutex
	show := func(events []books.ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		return output.Render(cmd.OutOrStdout(), flags.Format(), events, func() output.Data {
			return output.ChangesToData(events)
		})
	}

	if once {
		events, err := client.CheckNow(ctx)
		if err != nil {
			return err
		}
		if len(events) == 0 && !flags.Structured() {
			cmd.PrintErrln("No new changes.")
			return nil
		}
		return show(events)
	}

	logger := app.Logger()
	client.OnNewChanges(func(_ context.Context, events []books.ChangeEvent) {
		if err := show(events); err != nil {
			logger.Warn().Err(err).Msg("Failed to print changes")
		}
	})

	if err := client.WatchOn(); err != nil {
		return err
	}
	if !flags.Quiet {
		cmd.PrintErrf("Watching for changes at %s, press Ctrl+C to stop\n", time.Now().Format(time.TimeOnly))
	}

	<-ctx.Done()
	return client.WatchOff()
}

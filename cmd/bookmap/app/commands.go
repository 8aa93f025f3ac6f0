package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/cmd/bookmap/cmd/display"
	"github.com/agentstation/bookmap/cmd/bookmap/cmd/inbox"
	"github.com/agentstation/bookmap/cmd/bookmap/cmd/search"
	"github.com/agentstation/bookmap/cmd/bookmap/cmd/serve"
	"github.com/agentstation/bookmap/cmd/bookmap/cmd/shelf"
	"github.com/agentstation/bookmap/cmd/bookmap/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(search.NewShowCommand(a))
	rootCmd.AddCommand(search.NewCoverCommand(a))
	rootCmd.AddCommand(watch.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(shelf.NewCommand(a))
	rootCmd.AddCommand(inbox.NewCommand(a))
	rootCmd.AddCommand(display.NewThemeCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.CreateVersionCommand())
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bookmap %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(out, "  commit:   %s\n", a.commit)
				fmt.Fprintf(out, "  built:    %s\n", a.date)
				fmt.Fprintf(out, "  built by: %s\n", a.builtBy)
			}
		},
	}
}

// Package display provides the theme command.
package display

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/prefs"
)

// NewThemeCommand creates the theme command.
func NewThemeCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		GroupID:   "management",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		Example: `  bookmap theme
  bookmap theme dark
  bookmap theme toggle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var theme books.Theme
			switch {
			case len(args) == 0:
				theme = client.Theme(ctx)
			case args[0] == "toggle":
				if theme, err = client.ToggleTheme(ctx); err != nil {
					return err
				}
			default:
				if theme, err = prefs.ParseTheme(args[0]); err != nil {
					return err
				}
				if err := client.SetTheme(ctx, theme); err != nil {
					return err
				}
			}

			flags := globals.Parse(cmd)
			if flags.Structured() {
				return output.Render(cmd.OutOrStdout(), flags.Format(), map[string]string{"theme": string(theme)}, nil)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), theme)
			return err
		},
	}
}

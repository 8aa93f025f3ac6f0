// Package shelf provides the favorites command and its subcommands.
package shelf

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/favorites"
)

// NewCommand creates the favorites command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		GroupID: "management",
		Short:   "Manage favorite books",
		Example: `  bookmap favorites
  bookmap favorites add OL893415W
  bookmap favorites remove OL893415W
  bookmap favorites clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, app)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite books",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return list(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "add <work-id>...",
			Short: "Add works to favorites",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return add(cmd, app, args)
			},
		},
		&cobra.Command{
			Use:     "remove <work-id>...",
			Aliases: []string{"rm"},
			Short:   "Remove works from favorites",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return remove(cmd, app, args)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every favorite",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := app.Client()
				if err != nil {
					return err
				}
				set, err := client.ClearFavorites(cmd.Context())
				if err != nil {
					return err
				}
				return render(cmd, set)
			},
		},
	)

	return cmd
}

func list(cmd *cobra.Command, app appcontext.Interface) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	return render(cmd, client.Favorites(cmd.Context()))
}

// add looks each work up so the stored entry carries its title and cover.
func add(cmd *cobra.Command, app appcontext.Interface, ids []string) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var set favorites.Set
	for _, id := range ids {
		work, err := client.Work(ctx, id)
		if err != nil {
			return err
		}
		if set, err = client.AddFavorite(ctx, work.Book()); err != nil {
			return err
		}
	}
	return render(cmd, set)
}

func remove(cmd *cobra.Command, app appcontext.Interface, ids []string) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	set := client.Favorites(ctx)
	for _, id := range ids {
		if set, err = client.RemoveFavorite(ctx, books.WorkKey(id)); err != nil {
			return err
		}
	}
	return render(cmd, set)
}

func render(cmd *cobra.Command, set favorites.Set) error {
	flags := globals.Parse(cmd)
	if set.Len() == 0 && !flags.Structured() {
		cmd.PrintErrln("No favorites yet.")
		return nil
	}
	return output.Render(cmd.OutOrStdout(), flags.Format(), set, func() output.Data {
		return output.FavoritesToData(set)
	})
}

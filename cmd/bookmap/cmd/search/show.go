package search

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// NewShowCommand creates the show command.
func NewShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "show <work-id>",
		GroupID: "core",
		Short:   "Show the details of a work",
		Args:    cobra.ExactArgs(1),
		Example: `  bookmap show OL893415W
  bookmap show /works/OL893415W -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			work, err := client.Work(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), globals.Parse(cmd).Format(), work, func() output.Data {
				return output.WorkToData(work, client.CoverURL(work.Book(), openlibrary.CoverLarge))
			})
		},
	}
}

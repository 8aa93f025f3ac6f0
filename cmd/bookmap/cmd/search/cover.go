package search

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// NewCoverCommand creates the cover command. It prints the cover image
// URL of a work, or the placeholder image when the work has no cover.
func NewCoverCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cover <work-id>",
		GroupID: "core",
		Short:   "Print the cover image URL of a work",
		Args:    cobra.ExactArgs(1),
		Example: `  bookmap cover OL893415W --size L`,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, _ := cmd.Flags().GetString("size")

			client, err := app.Client()
			if err != nil {
				return err
			}
			work, err := client.Work(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.CoverURL(work.Book(), openlibrary.ParseCoverSize(size)))
			return err
		},
	}
	cmd.Flags().String("size", "M", "cover size: S, M or L")
	return cmd
}

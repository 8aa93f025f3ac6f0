// Package search provides the search, show and cover commands.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/appcontext"
	"github.com/agentstation/bookmap/internal/cmd/globals"
	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// NewCommand creates the search command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [query...]",
		GroupID: "core",
		Short:   "Search the Open Library catalog",
		Long: `Search runs a catalog search. Without a query every work is listed
by the chosen sort order.

Sort orders: popular (default), title, newest, oldest, random.`,
		Example: `  bookmap search dune
  bookmap search "ursula le guin" --sort newest
  bookmap search --pages 3 --limit 50 tolkien
  bookmap search dune -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, strings.Join(args, " "))
		},
	}

	cmd.Flags().String("sort", "", "sort order: popular, title, newest, oldest, random")
	cmd.Flags().Int("limit", 0, "results per page (default from config)")
	cmd.Flags().Int("offset", 0, "result offset of the first page")
	cmd.Flags().Int("pages", 1, "number of pages to load")

	return cmd
}

func runSearch(cmd *cobra.Command, app appcontext.Interface, text string) error {
	sortFlag, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	pages, _ := cmd.Flags().GetInt("pages")

	sort := books.DefaultSort
	if sortFlag != "" {
		s, ok := books.ParseSort(sortFlag)
		if !ok {
			return errors.NewValidationError("sort", sortFlag, "unknown sort order")
		}
		sort = s
	}
	if pages < 1 {
		return errors.NewValidationError("pages", pages, "must be at least 1")
	}

	client, err := app.Client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var (
		docs  []books.Book
		total int
		more  bool
	)
	if offset > 0 || pages == 1 {
		resp, err := client.Search(ctx, openlibrary.Query{Text: text, Offset: offset, Limit: limit, Sort: sort})
		if err != nil {
			return err
		}
		docs, total = resp.Docs, resp.NumFound
		more = offset+len(docs) < total
	} else {
		p := client.Paginate(limit)
		if _, err := p.Search(ctx, text, sort); err != nil {
			return err
		}
		for i := 1; i < pages && p.HasMore(); i++ {
			if _, err := p.LoadMore(ctx); err != nil {
				return err
			}
		}
		docs, total, more = p.Items(), p.Total(), p.HasMore()
	}

	flags := globals.Parse(cmd)
	if err := output.Render(cmd.OutOrStdout(), flags.Format(), docs, func() output.Data {
		return output.BooksToData(docs)
	}); err != nil {
		return err
	}
	if !flags.Structured() && !flags.Quiet {
		footer := fmt.Sprintf("\nShowing %d of %d books", len(docs), total)
		if more {
			footer += " (use --pages or --offset for more)"
		}
		cmd.PrintErrln(footer)
	}
	return nil
}

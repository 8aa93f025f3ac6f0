package bookmap

import (
	"context"
	"strings"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/openlibrary"
	"github.com/agentstation/bookmap/pkg/search"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ Searcher       = (*client)(nil)
	_ search.Backend = (*client)(nil)
)

// Searcher runs catalog searches.
type Searcher interface {
	// Search runs one page of a search. The response is never nil.
	Search(ctx context.Context, q openlibrary.Query) (*books.SearchResponse, error)

	// Paginate returns a paginator backed by Search. A non-positive limit
	// uses the configured page size.
	Paginate(limit int) *search.Paginator

	// Work fetches the details of a work.
	Work(ctx context.Context, id string) (*books.Work, error)

	// CoverURL returns the cover image URL of a book.
	CoverURL(book books.Book, size openlibrary.CoverSize) string
}

// Search runs q through the cached search service. The first page of a
// non-blank query records a "Search Results Updated" notification,
// debounced when WithSearchDebounce is set.
func (c *client) Search(ctx context.Context, q openlibrary.Query) (*books.SearchResponse, error) {
	if q.Limit <= 0 {
		q.Limit = c.options.searchLimit
	}
	resp, err := c.search.Search(ctx, q)
	if err != nil {
		return resp, err
	}
	if text := strings.TrimSpace(q.Text); q.Offset == 0 && text != "" {
		c.notifySearch(ctx, text, resp.NumFound)
	}
	return resp, nil
}

func (c *client) notifySearch(ctx context.Context, text string, found int) {
	if c.typing == nil {
		c.notifier.SearchResultsUpdated(ctx, text, found)
		return
	}
	// the request context ends before the quiet period does
	ctx = context.WithoutCancel(ctx)
	c.typing.Trigger(func() {
		c.notifier.SearchResultsUpdated(ctx, text, found)
	})
}

// Paginate returns a paginator backed by Search.
func (c *client) Paginate(limit int) *search.Paginator {
	if limit <= 0 {
		limit = c.options.searchLimit
	}
	return search.NewPaginator(c, limit)
}

// Work fetches the details of a work by id or key.
func (c *client) Work(ctx context.Context, id string) (*books.Work, error) {
	return c.api.Work(ctx, id)
}

// CoverURL returns the cover image URL of book, or the placeholder.
func (c *client) CoverURL(book books.Book, size openlibrary.CoverSize) string {
	return c.api.CoverURL(book, size)
}

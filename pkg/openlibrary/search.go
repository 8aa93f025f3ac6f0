package openlibrary

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
)

// Query is a catalog search request.
type Query struct {
	Text   string
	Offset int
	Limit  int
	Sort   books.SortOption
}

// Normalize fills defaults: blank text searches all works, the default
// sort is popularity and the default page size is 20.
func (q Query) Normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		q.Text = constants.DefaultSearchQuery
	}
	if q.Sort == "" {
		q.Sort = books.DefaultSort
	}
	if q.Limit <= 0 {
		q.Limit = constants.DefaultSearchLimit
	}
	if q.Limit > constants.MaxSearchLimit {
		q.Limit = constants.MaxSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Validate reports invalid sort orders.
func (q Query) Validate() error {
	if q.Sort != "" && !q.Sort.Valid() {
		return errors.NewValidationError("sort", q.Sort, "unknown sort order")
	}
	return nil
}

// Values encodes the query as search API parameters.
func (q Query) Values() url.Values {
	n := q.Normalize()
	v := url.Values{}
	v.Set("q", n.Text)
	v.Set("offset", strconv.Itoa(n.Offset))
	v.Set("limit", strconv.Itoa(n.Limit))
	v.Set("sort", string(n.Sort))
	v.Set("fields", constants.SearchFields)
	return v
}

// Search runs a catalog search.
func (c *Client) Search(ctx context.Context, q Query) (*books.SearchResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var resp books.SearchResponse
	if err := c.getJSON(ctx, "/search.json", q.Values(), &resp); err != nil {
		return nil, err
	}
	if resp.Docs == nil {
		resp.Docs = []books.Book{}
	}
	return &resp, nil
}

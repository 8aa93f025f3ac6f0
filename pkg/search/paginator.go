package search

import (
	"context"
	"sync"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// Page is the outcome of one paginated fetch.
type Page struct {
	Items   []books.Book `json:"items" yaml:"items"`
	Offset  int          `json:"offset" yaml:"offset"`
	Total   int          `json:"totalFound" yaml:"total_found"`
	HasMore bool         `json:"hasMore" yaml:"has_more"`
}

// Paginator accumulates result pages for one query. Pages are appended,
// never replaced, until a short page arrives or the accumulated count
// reaches the reported total.
type Paginator struct {
	backend Backend
	limit   int

	mu      sync.Mutex
	text    string
	sort    books.SortOption
	items   []books.Book
	total   int
	hasMore bool
}

// NewPaginator returns a paginator fetching limit results per page.
func NewPaginator(backend Backend, limit int) *Paginator {
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}
	if limit > constants.MaxSearchLimit {
		limit = constants.MaxSearchLimit
	}
	return &Paginator{
		backend: backend,
		limit:   limit,
		items:   []books.Book{},
		hasMore: true,
	}
}

// Reset starts a new result window for text and sort. No request is made.
func (p *Paginator) Reset(text string, sort books.SortOption) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.sort = sort
	p.items = []books.Book{}
	p.total = 0
	p.hasMore = true
}

// Search resets the window and fetches its first page.
func (p *Paginator) Search(ctx context.Context, text string, sort books.SortOption) (Page, error) {
	p.Reset(text, sort)
	return p.LoadMore(ctx)
}

// LoadMore fetches the page following the accumulated items. Once the
// window is exhausted it returns an empty page without a request. A failed
// fetch leaves the window untouched so the call can be retried.
func (p *Paginator) LoadMore(ctx context.Context) (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	offset := len(p.items)
	if !p.hasMore {
		return Page{Items: []books.Book{}, Offset: offset, Total: p.total}, nil
	}

	resp, err := p.backend.Search(ctx, openlibrary.Query{
		Text:   p.text,
		Offset: offset,
		Limit:  p.limit,
		Sort:   p.sort,
	})
	if err != nil {
		return Page{Items: []books.Book{}, Offset: offset, Total: p.total, HasMore: p.hasMore}, err
	}

	docs := resp.Docs
	if docs == nil {
		docs = []books.Book{}
	}
	p.items = append(p.items, docs...)
	p.total = resp.NumFound
	p.hasMore = len(docs) >= p.limit && len(p.items) < p.total

	return Page{
		Items:   append([]books.Book{}, docs...),
		Offset:  offset,
		Total:   p.total,
		HasMore: p.hasMore,
	}, nil
}

// Items returns every accumulated result.
func (p *Paginator) Items() []books.Book {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]books.Book{}, p.items...)
}

// Total returns the total reported by the last page.
func (p *Paginator) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// HasMore reports whether LoadMore may return further results.
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Limit returns the page size.
func (p *Paginator) Limit() int {
	return p.limit
}

package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/logging"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// catalog serves total synthetic books and records every query.
type catalog struct {
	mu      sync.Mutex
	total   int
	fail    error
	queries []openlibrary.Query
}

func (c *catalog) Search(_ context.Context, q openlibrary.Query) (*books.SearchResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q = q.Normalize()
	c.queries = append(c.queries, q)
	if c.fail != nil {
		return nil, c.fail
	}
	docs := []books.Book{}
	for i := q.Offset; i < c.total && i < q.Offset+q.Limit; i++ {
		docs = append(docs, books.Book{Key: fmt.Sprintf("/works/OL%dW", i), Title: fmt.Sprintf("Book %d", i)})
	}
	return &books.SearchResponse{NumFound: c.total, Start: q.Offset, Docs: docs}, nil
}

func (c *catalog) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

func TestPaginatorFortyFive(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(&catalog{total: 45}, 20)
	p.Reset("dune", books.SortPopular)

	var lengths []int
	var more []bool
	for i := 0; i < 3; i++ {
		page, err := p.LoadMore(ctx)
		require.NoError(t, err)
		assert.Equal(t, i*20, page.Offset)
		lengths = append(lengths, len(page.Items))
		more = append(more, page.HasMore)
	}

	assert.Equal(t, []int{20, 20, 5}, lengths)
	assert.Equal(t, []bool{true, true, false}, more)
	assert.Len(t, p.Items(), 45)
	assert.Equal(t, 45, p.Total())
}

func TestPaginatorAppends(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(&catalog{total: 30}, 20)

	_, err := p.Search(ctx, "dune", "")
	require.NoError(t, err)
	first := p.Items()
	_, err = p.LoadMore(ctx)
	require.NoError(t, err)

	items := p.Items()
	require.Len(t, items, 30)
	assert.Equal(t, first, items[:20], "earlier items are kept")
}

func TestPaginatorStopsRequestingWhenExhausted(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 5}
	p := NewPaginator(cat, 20)

	page, err := p.Search(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, page.HasMore)

	page, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, cat.calls())
}

func TestPaginatorResetStartsNewWindow(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 100}
	p := NewPaginator(cat, 20)

	_, _ = p.Search(ctx, "dune", "")
	_, _ = p.LoadMore(ctx)
	page, err := p.Search(ctx, "tolkien", books.SortNewest)
	require.NoError(t, err)

	assert.Equal(t, 0, page.Offset)
	assert.Len(t, p.Items(), 20)
	last := cat.queries[len(cat.queries)-1]
	assert.Equal(t, "tolkien", last.Text)
	assert.Equal(t, books.SortNewest, last.Sort)
}

func TestPaginatorFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 45}
	p := NewPaginator(cat, 20)
	_, err := p.Search(ctx, "dune", "")
	require.NoError(t, err)

	cat.fail = errors.ErrUnavailable
	_, err = p.LoadMore(ctx)
	require.Error(t, err)
	assert.True(t, p.HasMore())
	assert.Len(t, p.Items(), 20)

	cat.fail = nil
	page, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Offset)
}

func TestServiceSubstitutesEmptyResponse(t *testing.T) {
	s := NewService(&catalog{fail: errors.ErrUnavailable}, WithLogger(logging.NewNopLogger()))

	resp, err := s.Search(context.Background(), openlibrary.Query{Text: "dune", Offset: 40})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 0, resp.NumFound)
	assert.Equal(t, 40, resp.Start)
	assert.NotNil(t, resp.Docs)
	assert.Empty(t, resp.Docs)
}

func TestServiceCaches(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 3}
	s := NewService(cat, WithLogger(logging.NewNopLogger()))

	a, err := s.Search(ctx, openlibrary.Query{Text: "dune"})
	require.NoError(t, err)
	b, err := s.Search(ctx, openlibrary.Query{Text: " dune "})
	require.NoError(t, err)
	assert.Equal(t, a.Docs, b.Docs)
	assert.Equal(t, 1, cat.calls(), "normalized queries share a cache entry")

	_, err = s.Search(ctx, openlibrary.Query{Text: "dune", Sort: books.SortTitle})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.calls())

	s.Invalidate()
	_, err = s.Search(ctx, openlibrary.Query{Text: "dune"})
	require.NoError(t, err)
	assert.Equal(t, 3, cat.calls())
}

func TestServiceWithoutCache(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 3}
	s := NewService(cat, WithCacheTTL(0), WithLogger(logging.NewNopLogger()))
	_, _ = s.Search(ctx, openlibrary.Query{Text: "dune"})
	_, _ = s.Search(ctx, openlibrary.Query{Text: "dune"})
	assert.Equal(t, 2, cat.calls())
}

func TestServiceDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	cat := &catalog{total: 3, fail: errors.ErrUnavailable}
	s := NewService(cat, WithLogger(logging.NewNopLogger()))
	_, err := s.Search(ctx, openlibrary.Query{Text: "dune"})
	require.Error(t, err)

	cat.fail = nil
	resp, err := s.Search(ctx, openlibrary.Query{Text: "dune"})
	require.NoError(t, err)
	assert.Len(t, resp.Docs, 3)
}

func TestDebouncerCoalesces(t *testing.T) {
	clk := testclock.NewClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	d := NewDebouncer(clk, 0)
	assert.Equal(t, 500*time.Millisecond, d.Delay())

	fired := make(chan string, 3)
	for _, q := range []string{"d", "du", "dun"} {
		d.Trigger(func() { fired <- q })
		clk.Advance(100 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	require.NoError(t, clk.WaitAdvance(500*time.Millisecond, 5*time.Second, 1))
	select {
	case q := <-fired:
		assert.Equal(t, "dun", q)
	case <-time.After(5 * time.Second):
		t.Fatal("debounced call did not run")
	}

	select {
	case q := <-fired:
		t.Fatalf("unexpected extra call %q", q)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncerCancel(t *testing.T) {
	clk := testclock.NewClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	d := NewDebouncer(clk, time.Second)

	fired := make(chan struct{}, 1)
	d.Trigger(func() { fired <- struct{}{} })
	d.Cancel()
	assert.False(t, d.Pending())

	clk.Advance(2 * time.Second)
	select {
	case <-fired:
		t.Fatal("canceled call ran")
	case <-time.After(50 * time.Millisecond):
	}
}

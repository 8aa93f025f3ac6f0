package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
)

const addFeed = `[
  {"id": "150", "kind": "add-book", "timestamp": "2025-03-01T10:00:00.123456", "comment": "import",
   "author": {"key": "/people/importbot"}, "changes": [{"key": "/books/OL1M", "revision": 1}, {"key": "/works/OL1W", "revision": 1}]},
  {"id": "149", "kind": "add-book", "timestamp": "2025-03-01T09:59:00", "author": null, "changes": []}
]`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithCoversURL("https://covers.test"))
}

func TestSearchQueryParameters(t *testing.T) {
	var got url.Values
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"numFound": 2, "start": 0, "docs": [{"key": "/works/OL1W", "title": "Dune", "author_name": ["Frank Herbert"], "cover_i": 42}]}`))
	})

	resp, err := c.Search(context.Background(), Query{Text: "  "})
	require.NoError(t, err)

	assert.Equal(t, "type:work", got.Get("q"))
	assert.Equal(t, "rating desc", got.Get("sort"))
	assert.Equal(t, "20", got.Get("limit"))
	assert.Equal(t, "0", got.Get("offset"))
	assert.Equal(t, constants.SearchFields, got.Get("fields"))

	assert.Equal(t, 2, resp.NumFound)
	require.Len(t, resp.Docs, 1)
	assert.Equal(t, "Dune", resp.Docs[0].Title)
	assert.Equal(t, 42, resp.Docs[0].CoverID)
}

func TestSearchRejectsUnknownSort(t *testing.T) {
	c := New(WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Search(context.Background(), Query{Sort: "relevance"})
	assert.True(t, errors.IsValidationError(err))
}

func TestSearchServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Search(context.Background(), Query{Text: "dune"})
	assert.True(t, errors.IsUnavailable(err))
}

func TestRecentChanges(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recentchanges/add-book.json", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "false", r.URL.Query().Get("bot"))
		_, _ = w.Write([]byte(addFeed))
	})

	events, err := c.RecentChanges(context.Background(), books.KindAdd, 5)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "150", first.ID)
	assert.Equal(t, books.KindAdd, first.Kind)
	assert.Equal(t, "/people/importbot", first.AuthorRef)
	assert.Equal(t, []string{"/books/OL1M", "/works/OL1W"}, first.AffectedKeys)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC), first.Timestamp)

	assert.Equal(t, "149", events[1].ID)
	assert.Empty(t, events[1].AuthorRef)
}

func TestRecentChangesNonArray(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "maintenance"}`))
	})
	events, err := c.RecentChanges(context.Background(), books.KindEdit, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecentChangesValidation(t *testing.T) {
	c := New()
	_, err := c.RecentChanges(context.Background(), "merge", 5)
	assert.True(t, errors.IsValidationError(err))
	_, err = c.RecentChanges(context.Background(), books.KindAdd, 0)
	assert.True(t, errors.IsValidationError(err))
}

func TestWork(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/OL45883W.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"key": "/works/OL45883W", "title": "Dune", "description": {"type": "/type/text", "value": "Desert planet."}, "covers": [1, 2]}`))
	})

	w, err := c.Work(context.Background(), "/works/OL45883W")
	require.NoError(t, err)
	assert.Equal(t, "Dune", w.Title)
	assert.Equal(t, "Desert planet.", w.Description.String())

	_, err = c.Work(context.Background(), "OL0W")
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, strings.Contains(err.Error(), "OL0W"))
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-M.jpg", CoverURL(42, ""))
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-L.jpg", CoverURL(42, CoverLarge))
	assert.Equal(t, DefaultCoverURL(), CoverURL(0, CoverSmall))
	assert.True(t, strings.HasPrefix(DefaultCoverURL(), "data:image/svg+xml;base64,"))

	c := New(WithCoversURL("https://covers.test/"))
	assert.Equal(t, "https://covers.test/b/id/7-S.jpg", c.CoverURL(books.Book{CoverID: 7}, ParseCoverSize("S")))
	assert.Equal(t, CoverMedium, ParseCoverSize("XL"))
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/logging"
)

const addFeed = `[{"id":"101","kind":"add-book","timestamp":"2026-10-14T09:00:00.000000",
	"comment":"import","author":{"key":"/people/ann"},"changes":[{"key":"/books/OL9M","revision":1}]}]`

// library is a fake Open Library API.
func library() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"numFound":2,"start":0,"docs":[
			{"key":"/works/OL1W","title":"Dune","first_publish_year":1965},
			{"key":"/works/OL2W","title":"Dune Messiah","first_publish_year":1969}]}`)
	})
	mux.HandleFunc("/works/OL1W.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"key":"/works/OL1W","title":"Dune","covers":[42]}`)
	})
	mux.HandleFunc("/recentchanges/add-book.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, addFeed)
	})
	mux.HandleFunc("/recentchanges/edit-book.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[]`)
	})
	return mux
}

func testConfig(baseURL string) *Config {
	return &Config{
		Quiet:        true,
		BaseURL:      baseURL,
		CoversURL:    "https://covers.example.org",
		HTTPTimeout:  5 * time.Second,
		StoreBackend: "memory",
		PollInterval: time.Minute,
		FeedLimit:    10,
		SearchLimit:  20,
		ServerAddr:   "127.0.0.1:0",
		LogFormat:    "json",
		LogOutput:    "stderr",
	}
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	lib := httptest.NewServer(library())
	t.Cleanup(lib.Close)

	var out, errOut bytes.Buffer
	app, err := New("1.2.3", "abc123", "2026-10-14", "test",
		WithConfig(testConfig(lib.URL)),
		WithLogger(logging.NewNopLogger()),
		WithOutput(&out, &errOut),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, &out
}

// run executes args and returns stdout.
func run(t *testing.T, app *App, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, app.Execute(context.Background(), append(args, "--quiet")))
	return out.String()
}

func TestNew(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-10-14", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.Equal(t, "127.0.0.1:0", app.ServerAddr())
	assert.NotNil(t, app.Logger())
}

func TestClientSingleton(t *testing.T) {
	app, _ := newTestApp(t)

	first, err := app.Client()
	require.NoError(t, err)
	second, err := app.Client()
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := app.ClientWithOptions()
	require.NoError(t, err)
	defer other.Close()
	assert.NotSame(t, first, other)

	require.NoError(t, app.Shutdown(context.Background()))
	third, err := app.Client()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestShutdownWithoutClient(t *testing.T) {
	app, _ := newTestApp(t)
	assert.NoError(t, app.Shutdown(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	app, out := newTestApp(t)
	assert.Equal(t, "bookmap 1.2.3\n", run(t, app, out, "version"))

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"version", "--verbose"}))
	assert.Contains(t, out.String(), "commit:   abc123")
}

func TestSearchCommand(t *testing.T) {
	app, out := newTestApp(t)

	stdout := run(t, app, out, "search", "dune", "-o", "json")
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 2)
	assert.Contains(t, stdout, "Dune Messiah")

	err := app.Execute(context.Background(), []string{"search", "dune", "--sort", "sideways"})
	assert.Error(t, err)
}

func TestShowAndCoverCommands(t *testing.T) {
	app, out := newTestApp(t)

	assert.Contains(t, run(t, app, out, "show", "OL1W", "-o", "json"), `"Dune"`)
	assert.Equal(t, "https://covers.example.org/b/id/42-M.jpg\n", run(t, app, out, "cover", "OL1W", "--size", "M"))
}

func TestFavoritesCommand(t *testing.T) {
	app, out := newTestApp(t)

	stdout := run(t, app, out, "favorites", "add", "OL1W", "-o", "json")
	assert.Contains(t, stdout, "/works/OL1W")

	stdout = run(t, app, out, "favorites", "-o", "json")
	var set struct {
		BookIDs []string `json:"bookIds"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &set))
	assert.Equal(t, []string{"/works/OL1W"}, set.BookIDs)

	run(t, app, out, "favorites", "remove", "OL1W")
	stdout = run(t, app, out, "favorites", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(stdout), &set))
	assert.Empty(t, set.BookIDs)
}

func TestThemeAndNotificationsCommands(t *testing.T) {
	app, out := newTestApp(t)

	assert.Equal(t, "light\n", run(t, app, out, "theme", "-o", "table"))
	assert.Equal(t, "dark\n", run(t, app, out, "theme", "toggle", "-o", "table"))
	assert.JSONEq(t, `{"theme":"dark"}`, run(t, app, out, "theme", "-o", "json"))
	assert.Error(t, app.Execute(context.Background(), []string{"theme", "sepia"}))

	stdout := run(t, app, out, "notifications", "-o", "json")
	assert.Contains(t, stdout, "Theme Updated")

	run(t, app, out, "notifications", "read", "--all")
	run(t, app, out, "notifications", "clear")
	stdout = run(t, app, out, "notifications", "-o", "json")
	assert.NotContains(t, stdout, "Theme Updated")
}

func TestWatchOnce(t *testing.T) {
	app, out := newTestApp(t)

	stdout := run(t, app, out, "watch", "--once", "-o", "json")
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "101", events[0]["id"])

	// markers advanced, nothing new on the second check
	stdout = run(t, app, out, "watch", "--once", "-o", "json")
	assert.NotContains(t, stdout, `"101"`)

	stdout = run(t, app, out, "watch", "--once", "--reset", "-o", "json")
	assert.Contains(t, stdout, `"101"`)
}

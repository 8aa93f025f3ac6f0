package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/favorites"
	"github.com/agentstation/bookmap/pkg/notifications"
)

var dune = books.Book{
	Key:              "/works/OL893415W",
	Title:            "Dune",
	AuthorNames:      []string{"Frank Herbert"},
	FirstPublishYear: 1965,
	Publishers:       []string{"Chilton"},
	Subjects:         []string{"Science fiction", "Deserts", "Ecology", "Politics"},
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, dune))
	assert.Contains(t, buf.String(), `"title": "Dune"`)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, dune))
	assert.Contains(t, buf.String(), "title: Dune")
}

func TestBooksTableNarrowAndWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, BooksToData([]books.Book{dune})))
	out := buf.String()
	assert.Contains(t, out, "OL893415W")
	assert.Contains(t, out, "Frank Herbert")
	assert.NotContains(t, out, "Chilton")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, BooksToData([]books.Book{dune})))
	out = buf.String()
	assert.Contains(t, out, "Chilton")
	assert.Contains(t, out, "Ecology")
	assert.NotContains(t, out, "Politics", "only the first three subjects are shown")
}

func TestFavoritesToData(t *testing.T) {
	d := FavoritesToData(favorites.Set{BookIDs: []string{dune.Key}, Books: []books.Book{dune}})
	require.Len(t, d.Rows, 1)
	assert.Equal(t, "1", d.Rows[0][0])
	assert.Equal(t, "#", d.Headers[0])
	assert.Equal(t, []int{5, 6}, d.WideColumns)
}

func TestNotificationsToData(t *testing.T) {
	snap := notifications.Snapshot{Records: []notifications.Record{
		{ID: "a", Type: notifications.TypeInfo, Title: "New Books Added", Message: "m", Timestamp: time.Now().UnixMilli()},
		{ID: "b", Type: notifications.TypeSuccess, Title: "Theme Updated", Message: "m", Read: true},
	}}
	d := NotificationsToData(snap)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "•", d.Rows[0][1])
	assert.Equal(t, "", d.Rows[1][1])
}

func TestReflectionFallback(t *testing.T) {
	type row struct {
		FirstName string `json:"first_name"`
		Count     int
		hidden    bool
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{"Ada", 3, true}}))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "FIRST NAME")
	assert.Contains(t, out, "ADA")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"a": 1}))
	assert.Contains(t, buf.String(), `"a": 1`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, []books.Book{dune}, func() Data {
		t.Fatal("table built for structured output")
		return Data{}
	}))
	assert.Contains(t, buf.String(), `"key": "/works/OL893415W"`)

	buf.Reset()
	require.NoError(t, Render(&buf, FormatTable, nil, func() Data { return BooksToData([]books.Book{dune}) }))
	assert.Contains(t, buf.String(), "OL893415W")
}

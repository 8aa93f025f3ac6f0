package books

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkDescriptionShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `{"key":"/works/OL1W","description":"A novel."}`, "A novel."},
		{"typed object", `{"key":"/works/OL1W","description":{"type":"/type/text","value":"A typed novel."}}`, "A typed novel."},
		{"null", `{"key":"/works/OL1W","description":null}`, ""},
		{"absent", `{"key":"/works/OL1W"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Work
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &w))
			assert.Equal(t, tt.want, w.Description.String())
		})
	}
}

func TestKindFeed(t *testing.T) {
	assert.Equal(t, "add-book", KindAdd.Feed())
	assert.Equal(t, "edit-book", KindEdit.Feed())

	k, ok := KindFromFeed("edit-book")
	assert.True(t, ok)
	assert.Equal(t, KindEdit, k)

	_, ok = KindFromFeed("merge-authors")
	assert.False(t, ok)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want SortOption
		ok   bool
	}{
		{"rating desc", SortPopular, true},
		{"popular", SortPopular, true},
		{"new", SortNewest, true},
		{"Oldest", SortOldest, true},
		{"random.daily", SortRandom, true},
		{"relevance", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSort(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestBookHelpers(t *testing.T) {
	b := Book{Key: "/works/OL45883W", AuthorNames: []string{"A", "B"}}
	assert.Equal(t, "OL45883W", b.ID())
	assert.Equal(t, "A, B", b.Authors())
	assert.Equal(t, "Unknown author", Book{}.Authors())
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.False(t, Theme("sepia").Valid())
}

func TestWorkBook(t *testing.T) {
	w := Work{
		Key:              "/works/OL1W",
		Title:            "Dune",
		Description:      "Spice.",
		Covers:           []int{42, 7},
		FirstPublishDate: "August 1, 1965",
	}
	b := w.Book()
	assert.Equal(t, "/works/OL1W", b.Key)
	assert.Equal(t, 42, b.CoverID)
	assert.Equal(t, 1965, b.FirstPublishYear)
	assert.Equal(t, "Spice.", b.Description)

	assert.Zero(t, Work{FirstPublishDate: "n.d."}.Book().FirstPublishYear)
}

func TestWorkKey(t *testing.T) {
	assert.Equal(t, "/works/OL1W", WorkKey("OL1W"))
	assert.Equal(t, "/works/OL1W", WorkKey("/works/OL1W"))
}

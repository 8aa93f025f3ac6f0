// Package books defines the catalog data model shared by the Open Library
// client, the favorites store, search pagination and the change feed poller.
package books

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Book is a catalog entry as returned by the search API.
type Book struct {
	Key              string   `json:"key" yaml:"key"`
	Title            string   `json:"title" yaml:"title"`
	AuthorNames      []string `json:"author_name,omitempty" yaml:"author_name,omitempty"`
	AuthorKeys       []string `json:"author_key,omitempty" yaml:"author_key,omitempty"`
	CoverID          int      `json:"cover_i,omitempty" yaml:"cover_i,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty" yaml:"first_publish_year,omitempty"`
	Publishers       []string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	ISBNs            []string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Pages            int      `json:"number_of_pages_median,omitempty" yaml:"number_of_pages_median,omitempty"`
	Subjects         []string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// ID returns the bare work id, e.g. "OL45883W" for key "/works/OL45883W".
func (b Book) ID() string {
	return WorkID(b.Key)
}

// Authors returns the author names joined for display.
func (b Book) Authors() string {
	if len(b.AuthorNames) == 0 {
		return "Unknown author"
	}
	return strings.Join(b.AuthorNames, ", ")
}

// WorkID strips the "/works/" prefix from a work key.
func WorkID(key string) string {
	return strings.TrimPrefix(key, "/works/")
}

// WorkKey returns the "/works/<id>" key of a work id or key.
func WorkKey(id string) string {
	return "/works/" + WorkID(id)
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	NumFound int    `json:"numFound" yaml:"num_found"`
	Start    int    `json:"start" yaml:"start"`
	Docs     []Book `json:"docs" yaml:"docs"`
}

// Empty reports whether the response carries no documents.
func (r SearchResponse) Empty() bool {
	return len(r.Docs) == 0
}

// Work holds the details returned by the works endpoint.
type Work struct {
	Key              string   `json:"key" yaml:"key"`
	Title            string   `json:"title" yaml:"title"`
	Description      Text     `json:"description,omitempty" yaml:"description,omitempty"`
	Subjects         []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Covers           []int    `json:"covers,omitempty" yaml:"covers,omitempty"`
	FirstPublishDate string   `json:"first_publish_date,omitempty" yaml:"first_publish_date,omitempty"`
}

// Book returns the work as a catalog entry, for favoriting a work looked up
// by id. Authors are not part of the works document.
func (w Work) Book() Book {
	b := Book{
		Key:         w.Key,
		Title:       w.Title,
		Subjects:    w.Subjects,
		Description: w.Description.String(),
	}
	if len(w.Covers) > 0 {
		b.CoverID = w.Covers[0]
	}
	if d := strings.TrimSpace(w.FirstPublishDate); len(d) >= 4 {
		if y, err := strconv.Atoi(d[len(d)-4:]); err == nil {
			b.FirstPublishYear = y
		}
	}
	return b
}

// Text is a string that Open Library encodes either as a plain JSON string
// or as a typed object {"type": "/type/text", "value": "..."}.
type Text string

// UnmarshalJSON accepts both encodings.
func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	*t = Text(typed.Value)
	return nil
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

// Kind is the kind of a change event.
type Kind string

// Change kinds.
const (
	KindAdd  Kind = "add"
	KindEdit Kind = "edit"
)

// Feed returns the name of the remote feed for the kind.
func (k Kind) Feed() string {
	switch k {
	case KindAdd:
		return "add-book"
	case KindEdit:
		return "edit-book"
	default:
		return string(k)
	}
}

// KindFromFeed maps a remote feed name back to a Kind.
func KindFromFeed(feed string) (Kind, bool) {
	switch feed {
	case "add-book":
		return KindAdd, true
	case "edit-book":
		return KindEdit, true
	default:
		return "", false
	}
}

// Kinds lists the change kinds in the order their events are reported.
var Kinds = []Kind{KindAdd, KindEdit}

// ChangeEvent is one entry of a recent-changes feed. Events are immutable once fetched.
type ChangeEvent struct {
	ID           string    `json:"id" yaml:"id"`
	Kind         Kind      `json:"kind" yaml:"kind"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Comment      string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	AuthorRef    string    `json:"author,omitempty" yaml:"author,omitempty"`
	AffectedKeys []string  `json:"affected_keys,omitempty" yaml:"affected_keys,omitempty"`
}

// SortOption is a search sort order.
type SortOption string

// Sort orders accepted by the search API.
const (
	SortPopular SortOption = "rating desc"
	SortTitle   SortOption = "title"
	SortNewest  SortOption = "new"
	SortOldest  SortOption = "old"
	SortRandom  SortOption = "random.daily"
)

// DefaultSort is applied when no sort is given.
const DefaultSort = SortPopular

// SortOptions lists the sort orders in display order.
var SortOptions = []SortOption{SortPopular, SortTitle, SortNewest, SortOldest, SortRandom}

// Label returns the display label of the sort order.
func (s SortOption) Label() string {
	switch s {
	case SortPopular:
		return "Popular"
	case SortTitle:
		return "Title"
	case SortNewest:
		return "Newest"
	case SortOldest:
		return "Oldest"
	case SortRandom:
		return "Random"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known sort order.
func (s SortOption) Valid() bool {
	for _, o := range SortOptions {
		if o == s {
			return true
		}
	}
	return false
}

// ParseSort parses a sort order, accepting either the API value or its label.
func ParseSort(s string) (SortOption, bool) {
	s = strings.TrimSpace(s)
	for _, o := range SortOptions {
		if string(o) == s || strings.EqualFold(o.Label(), s) {
			return o, true
		}
	}
	return "", false
}

// ViewMode is the result layout.
type ViewMode string

// View modes.
const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// DefaultView is applied when no view is given.
const DefaultView = ViewGrid

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	return v == ViewGrid || v == ViewList
}

// Theme is the color scheme preference.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no valid preference is stored.
const DefaultTheme = ThemeLight

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

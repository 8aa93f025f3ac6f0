package openlibrary

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
)

// Work fetches the details of a work by id ("OL45883W") or key ("/works/OL45883W").
func (c *Client) Work(ctx context.Context, id string) (*books.Work, error) {
	id = books.WorkID(id)
	if id == "" {
		return nil, errors.NewValidationError("id", id, "work id is required")
	}
	var w books.Work
	if err := c.getJSON(ctx, "/works/"+id+".json", nil, &w); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("work", id)
		}
		return nil, err
	}
	return &w, nil
}

// CoverSize is a cover image size.
type CoverSize string

// Cover sizes.
const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// ParseCoverSize parses S, M or L, defaulting to M.
func ParseCoverSize(s string) CoverSize {
	switch CoverSize(s) {
	case CoverSmall, CoverLarge:
		return CoverSize(s)
	default:
		return CoverMedium
	}
}

// placeholderSVG is shown for books without a cover.
const placeholderSVG = `<svg viewBox="0 0 120 120" fill="none" xmlns="http://www.w3.org/2000/svg">` +
	`<rect width="120" height="120" fill="#f1f5f9"></rect>` +
	`<path d="M33.25 38.48C33.26 37.05 34.42 35.89 35.85 35.88H83.15C84.58 35.88 85.75 37.04 85.75 38.48V80.52C85.74 81.95 84.58 83.11 83.15 83.13H35.85C34.42 83.12 33.25 81.96 33.25 80.52V38.48Z" fill="#64748b"></path>` +
	`</svg>`

var defaultCover = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(placeholderSVG))

// CoverURL returns the cover image URL for a cover id, or the placeholder
// when the id is not positive.
func CoverURL(coverID int, size CoverSize) string {
	return coverURL(constants.CoversURL, coverID, size)
}

// CoverURL returns the cover image URL for a book.
func (c *Client) CoverURL(b books.Book, size CoverSize) string {
	return coverURL(c.coversURL, b.CoverID, size)
}

// DefaultCoverURL returns the placeholder cover image.
func DefaultCoverURL() string {
	return defaultCover
}

func coverURL(base string, coverID int, size CoverSize) string {
	if coverID <= 0 {
		return defaultCover
	}
	if size == "" {
		size = CoverMedium
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", base, coverID, size)
}

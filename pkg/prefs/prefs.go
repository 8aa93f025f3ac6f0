// Package prefs stores display preferences and round-trips the browse
// state through URL query parameters.
package prefs

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
)

// ThemeStore persists the theme preference.
type ThemeStore struct {
	kv     kv.Store
	logger *zerolog.Logger
	mu     sync.Mutex
}

// NewThemeStore returns a theme store. A nil logger uses the default.
func NewThemeStore(store kv.Store, logger *zerolog.Logger) *ThemeStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ThemeStore{kv: store, logger: logger}
}

// Theme returns the stored theme, or light when none or garbage is stored.
func (s *ThemeStore) Theme(ctx context.Context) books.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ThemeStore) load(ctx context.Context) books.Theme {
	raw, ok, err := s.kv.Get(ctx, constants.KeyTheme)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read theme")
		return books.DefaultTheme
	}
	t := books.Theme(strings.TrimSpace(raw))
	if !ok || !t.Valid() {
		return books.DefaultTheme
	}
	return t
}

// SetTheme stores t.
func (s *ThemeStore) SetTheme(ctx context.Context, t books.Theme) error {
	if !t.Valid() {
		return errors.NewValidationError("theme", t, "theme must be light or dark")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.WrapResource("save", "theme", string(t), s.kv.Set(ctx, constants.KeyTheme, string(t)))
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *ThemeStore) ToggleTheme(ctx context.Context) (books.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.load(ctx).Toggle()
	if err := s.kv.Set(ctx, constants.KeyTheme, string(next)); err != nil {
		return s.load(ctx), errors.WrapResource("save", "theme", string(next), err)
	}
	return next, nil
}

// ParseTheme parses a theme name.
func ParseTheme(s string) (books.Theme, error) {
	t := books.Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.NewValidationError("theme", s, "theme must be light or dark")
	}
	return t, nil
}

// URL query parameter names.
const (
	ParamQuery = "q"
	ParamSort  = "sort"
	ParamView  = "view"
)

// URLState is the browse state mirrored into the URL.
type URLState struct {
	Query string           `json:"q" yaml:"q"`
	Sort  books.SortOption `json:"sort" yaml:"sort"`
	View  books.ViewMode   `json:"view" yaml:"view"`
}

// DefaultURLState is the state of a URL without parameters.
func DefaultURLState() URLState {
	return URLState{Sort: books.DefaultSort, View: books.DefaultView}
}

// ParseURLState reads q, sort and view. Unknown values fall back to the
// defaults.
func ParseURLState(v url.Values) URLState {
	s := DefaultURLState()
	s.Query = v.Get(ParamQuery)
	if sort := books.SortOption(v.Get(ParamSort)); sort.Valid() {
		s.Sort = sort
	}
	if view := books.ViewMode(v.Get(ParamView)); view.Valid() {
		s.View = view
	}
	return s
}

// Apply writes the state into v, deleting parameters that hold default
// values. Other parameters are left alone.
func (s URLState) Apply(v url.Values) {
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	} else {
		v.Del(ParamQuery)
	}
	if s.Sort != "" && s.Sort != books.DefaultSort {
		v.Set(ParamSort, string(s.Sort))
	} else {
		v.Del(ParamSort)
	}
	if s.View != "" && s.View != books.DefaultView {
		v.Set(ParamView, string(s.View))
	} else {
		v.Del(ParamView)
	}
}

// Values returns the state as query parameters with defaults omitted.
func (s URLState) Values() url.Values {
	v := url.Values{}
	s.Apply(v)
	return v
}

// Encode returns the encoded query string with defaults omitted.
func (s URLState) Encode() string {
	return s.Values().Encode()
}

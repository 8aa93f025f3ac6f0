package prefs

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
)

func TestThemeDefaultsToLight(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewThemeStore(mem, logging.NewNopLogger())

	assert.Equal(t, books.ThemeLight, s.Theme(ctx))

	require.NoError(t, mem.Set(ctx, constants.KeyTheme, "solarized"))
	assert.Equal(t, books.ThemeLight, s.Theme(ctx))
}

func TestSetAndToggleTheme(t *testing.T) {
	ctx := context.Background()
	s := NewThemeStore(kv.NewMemory(), logging.NewNopLogger())

	require.NoError(t, s.SetTheme(ctx, books.ThemeDark))
	assert.Equal(t, books.ThemeDark, s.Theme(ctx))

	next, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, books.ThemeLight, next)
	assert.Equal(t, books.ThemeLight, s.Theme(ctx))

	assert.Error(t, s.SetTheme(ctx, "blue"))
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, books.ThemeDark, th)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}

func TestParseURLState(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want URLState
	}{
		{"empty", "", DefaultURLState()},
		{"all set", "q=dune&sort=new&view=list", URLState{Query: "dune", Sort: books.SortNewest, View: books.ViewList}},
		{"garbage falls back", "sort=best&view=cards", DefaultURLState()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseURLState(v))
		})
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	assert.Equal(t, "", DefaultURLState().Encode())
	assert.Equal(t, "q=dune", URLState{Query: "dune", Sort: books.SortPopular, View: books.ViewGrid}.Encode())
	assert.Equal(t, "sort=title&view=list", URLState{Sort: books.SortTitle, View: books.ViewList}.Encode())
}

func TestApplyKeepsOtherParams(t *testing.T) {
	v := url.Values{"q": {"old"}, "sort": {"new"}, "page": {"2"}}
	DefaultURLState().Apply(v)
	assert.Equal(t, url.Values{"page": {"2"}}, v)
}

func TestURLStateRoundTrip(t *testing.T) {
	s := URLState{Query: "le guin", Sort: books.SortRandom, View: books.ViewList}
	v, err := url.ParseQuery(s.Encode())
	require.NoError(t, err)
	assert.Equal(t, s, ParseURLState(v))
}

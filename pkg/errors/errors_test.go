package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/bookmap/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "work", ID: "OL45883W"}
		assert.Equal(t, "work with ID OL45883W not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("notification", "abc")
		wrapped := fmt.Errorf("mark read: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("interval", 0, "must be positive")
		assert.Equal(t, "validation failed for field interval: must be positive", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad input"}
		assert.Equal(t, "validation failed: bad input", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
		want   bool
	}{
		{"rate limited", 429, pkgerrors.ErrRateLimited, true},
		{"server error", 503, pkgerrors.ErrUnavailable, true},
		{"not found", 404, pkgerrors.ErrNotFound, true},
		{"bad request", 400, pkgerrors.ErrUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("/search.json", tt.status, "boom")
			assert.Equal(t, tt.want, errors.Is(err, tt.target))
			assert.Contains(t, err.Error(), "/search.json")
		})
	}

	t.Run("unwraps", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.WrapAPI("/works/OL1W.json", 0, base)
		require.Error(t, err)
		assert.True(t, errors.Is(err, base))
		assert.Equal(t, "API error from /works/OL1W.json: connection reset", err.Error())
	})
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.WrapParse("json", "bookmap.favorites", base)

	assert.True(t, pkgerrors.IsCorrupt(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "json parse error in bookmap.favorites: unexpected end of JSON input", err.Error())

	var pe *pkgerrors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "json", pe.Format)
}

func TestWrapHelpersNil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "favorites", "", nil))
	assert.NoError(t, pkgerrors.WrapAPI("/x", 0, nil))
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))
}

func TestResourceAndIOError(t *testing.T) {
	base := errors.New("disk full")

	ioErr := pkgerrors.WrapIO("write", "/tmp/state.json", base)
	assert.Equal(t, "IO error during write of /tmp/state.json: disk full", ioErr.Error())
	assert.True(t, errors.Is(ioErr, base))

	resErr := pkgerrors.WrapResource("save", "markers", "", ioErr)
	assert.Contains(t, resErr.Error(), "failed to save markers")
	assert.True(t, errors.Is(resErr, base))
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("search", "10s", "no response")
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Equal(t, "operation search timed out after 10s: no response", err.Error())
}

func TestConfigError(t *testing.T) {
	base := errors.New("unknown backend")
	err := pkgerrors.NewConfigError("store", "invalid store_backend", base)
	assert.Equal(t, "configuration error in store: invalid store_backend", err.Error())
	assert.True(t, errors.Is(err, base))
}

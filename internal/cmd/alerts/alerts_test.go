package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/internal/cmd/output"
	"github.com/agentstation/bookmap/pkg/notifications"
)

func TestAlertString(t *testing.T) {
	a := NewError("fetch failed").WithError(errors.New("timeout"))
	assert.Equal(t, "✗ fetch failed: timeout", a.String())

	a = FromToast(notifications.Toast{Type: notifications.TypeSuccess, Title: "Theme Updated", Message: "Switched to dark theme"})
	assert.Equal(t, LevelSuccess, a.Level)
	assert.Equal(t, "✓ Theme Updated: Switched to dark theme", a.String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelError, LevelFor(notifications.TypeError))
	assert.Equal(t, LevelWarning, LevelFor(notifications.TypeWarning))
	assert.Equal(t, LevelInfo, LevelFor(notifications.TypeInfo))
	assert.Equal(t, LevelInfo, LevelFor("other"))
}

func TestToaster(t *testing.T) {
	var buf bytes.Buffer
	toaster := Toaster(NewWriterTo(&buf))
	toaster.Toast(context.Background(), notifications.Toast{Type: notifications.TypeInfo, Title: "Books Updated", Message: "Some books have been updated in Open Library"})
	assert.Equal(t, "ℹ Books Updated: Some books have been updated in Open Library\n", buf.String())
}

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := MultiWriter(NewWriterTo(&a), NewWriterTo(&b), DiscardWriter)
	require.NoError(t, w.WriteAlert(NewInfo("hello")))
	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), "hello")
}

func TestFormatWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatJSON)
	require.NoError(t, w.WriteAlert(NewWarning("careful").WithDetails("one")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warning", got["level"])
	assert.Equal(t, "careful", got["message"])

	buf.Reset()
	w = NewFormatWriter(&buf, output.FormatYAML)
	require.NoError(t, w.WriteAlert(NewSuccess("done")))
	assert.Contains(t, buf.String(), "level: success")

	buf.Reset()
	w = NewFormatWriter(&buf, output.FormatTable)
	require.NoError(t, w.WriteAlert(NewInfo("plain").WithDetails("detail")))
	assert.Equal(t, "ℹ plain\n   detail\n", buf.String(), "buffers are not terminals, so no color")
}

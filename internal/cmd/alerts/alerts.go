// Package alerts prints status messages and notification toasts on the
// command line.
package alerts

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agentstation/bookmap/pkg/notifications"
)

// Alert is a status message.
type Alert struct {
	Level     Level
	Title     string
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates an alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates an error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates an info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// FromToast converts a notification toast.
func FromToast(t notifications.Toast) *Alert {
	a := New(LevelFor(t.Type), t.Message)
	a.Title = t.Title
	return a
}

// WithError attaches an underlying error.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds context lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the one-line form of the alert.
func (a *Alert) String() string {
	msg := a.Level.Icon() + " "
	if a.Title != "" {
		msg += a.Title + ": "
	}
	msg += a.Message
	if a.Err != nil {
		msg += fmt.Sprintf(": %v", a.Err)
	}
	return msg
}

// Writer outputs alerts.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// MultiWriter writes to every writer, stopping at the first error.
func MultiWriter(writers ...Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		for _, w := range writers {
			if err := w.WriteAlert(alert); err != nil {
				return err
			}
		}
		return nil
	})
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo returns a Writer printing one line per alert to w. Writes
// are serialized so toasts from background goroutines do not interleave.
func NewWriterTo(w io.Writer) Writer {
	var mu sync.Mutex
	return WriterFunc(func(alert *Alert) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(w, alert.String())
		return err
	})
}

// Toaster returns a notifications.Toaster that prints toasts through w.
// Write failures are dropped.
func Toaster(w Writer) notifications.Toaster {
	return notifications.ToasterFunc(func(_ context.Context, t notifications.Toast) {
		_ = w.WriteAlert(FromToast(t))
	})
}

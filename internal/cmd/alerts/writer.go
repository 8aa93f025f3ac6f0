package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/bookmap/internal/cmd/output"
)

// FormatWriter writes alerts in an output format.
type FormatWriter struct {
	mu     sync.Mutex
	writer io.Writer
	format output.Format
	config WriterConfig
}

// WriterConfig configures alert output.
type WriterConfig struct {
	ShowTimestamp bool
	ShowDetails   bool
	UseColor      bool
}

// NewFormatWriter creates a FormatWriter. Color is enabled on terminals.
func NewFormatWriter(w io.Writer, format output.Format) *FormatWriter {
	return &FormatWriter{
		writer: w,
		format: format,
		config: WriterConfig{
			ShowDetails: true,
			UseColor:    isTerminal(w),
		},
	}
}

// WithConfig sets the writer configuration.
func (fw *FormatWriter) WithConfig(config WriterConfig) *FormatWriter {
	fw.config = config
	return fw
}

// WriteAlert writes an alert in the configured format.
func (fw *FormatWriter) WriteAlert(alert *Alert) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	switch fw.format {
	case output.FormatJSON:
		return json.NewEncoder(fw.writer).Encode(fw.data(alert))
	case output.FormatYAML:
		out, err := yaml.Marshal(fw.data(alert))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(fw.writer, "---\n%s", out); err != nil {
			return err
		}
		return nil
	default:
		return fw.writePlain(alert)
	}
}

type alertData struct {
	Level     string   `json:"level" yaml:"level"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp string   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func (fw *FormatWriter) data(alert *Alert) alertData {
	d := alertData{
		Level:   alert.Level.String(),
		Title:   alert.Title,
		Message: alert.Message,
		Details: alert.Details,
	}
	if alert.Err != nil {
		d.Error = alert.Err.Error()
	}
	if fw.config.ShowTimestamp {
		d.Timestamp = alert.Timestamp.Format(time.RFC3339)
	}
	return d
}

func (fw *FormatWriter) writePlain(alert *Alert) error {
	msg := alert.String()
	if fw.config.ShowTimestamp {
		msg = alert.Timestamp.Format(time.TimeOnly) + " " + msg
	}
	if fw.config.UseColor {
		msg = alert.Level.Color() + msg + resetColor
	}
	if _, err := fmt.Fprintln(fw.writer, msg); err != nil {
		return err
	}
	if fw.config.ShowDetails {
		for _, detail := range alert.Details {
			if _, err := fmt.Fprintf(fw.writer, "   %s\n", detail); err != nil {
				return err
			}
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

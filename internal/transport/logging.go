package transport

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/logging"
)

// LoggingTransport is an http.RoundTripper that logs requests at debug level.
type LoggingTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	logger := logging.FromContext(req.Context())
	if logger.GetLevel() > zerolog.DebugLevel {
		return base.RoundTrip(req)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	event := logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("elapsed", time.Since(start))
	if err != nil {
		event.Err(err).Msg("Outbound request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("Outbound request")
	return resp, nil
}

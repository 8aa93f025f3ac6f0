// Package handlers provides HTTP request handlers for the local API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap"
	"github.com/agentstation/bookmap/internal/server/sse"
	"github.com/agentstation/bookmap/pkg/errors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	client    bookmap.Client
	events    *sse.Broadcaster
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(client bookmap.Client, events *sse.Broadcaster, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		client:    client,
		events:    events,
		logger:    logger,
		startTime: time.Now(),
	}
}

// decode reads a JSON body into v.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.WrapParse("json", "request body", err)
	}
	return nil
}

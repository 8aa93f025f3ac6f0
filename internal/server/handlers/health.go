package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/bookmap/internal/server/response"
)

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":      "healthy",
		"service":     "bookmap",
		"uptime":      time.Since(h.startTime).Truncate(time.Second).String(),
		"watching":    h.client.Watching(),
		"sse_clients": h.events.ClientCount(),
	})
}

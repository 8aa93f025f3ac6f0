package handlers

import "net/http"

// HandleEvents handles GET /api/events, a Server-Sent Events stream of
// toasts and change events.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	h.events.ServeHTTP(w, r)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/bookmap/internal/server/response"
)

// HandleListNotifications handles GET /api/notifications.
func (h *Handlers) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.client.Notifications(r.Context()))
}

// HandleMarkAllRead handles POST /api/notifications/read.
func (h *Handlers) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	snap, err := h.client.MarkAllRead(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snap)
}

// HandleMarkRead handles POST /api/notifications/{id}/read.
func (h *Handlers) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	snap, err := h.client.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snap)
}

// HandleRemoveNotification handles DELETE /api/notifications/{id}.
func (h *Handlers) HandleRemoveNotification(w http.ResponseWriter, r *http.Request) {
	snap, err := h.client.RemoveNotification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snap)
}

// HandleClearNotifications handles DELETE /api/notifications.
func (h *Handlers) HandleClearNotifications(w http.ResponseWriter, r *http.Request) {
	snap, err := h.client.ClearNotifications(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snap)
}

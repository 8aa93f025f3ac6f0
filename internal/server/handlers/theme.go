package handlers

import (
	"net/http"

	"github.com/agentstation/bookmap/internal/server/response"
	"github.com/agentstation/bookmap/pkg/prefs"
)

type themeBody struct {
	Theme string `json:"theme"`
}

// HandleGetTheme handles GET /api/theme.
func (h *Handlers) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	response.OK(w, themeBody{Theme: string(h.client.Theme(r.Context()))})
}

// HandleSetTheme handles PUT /api/theme with {"theme":"light|dark"}.
func (h *Handlers) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := decode(r, w, &body); err != nil {
		response.BadRequest(w, "Invalid theme", err.Error())
		return
	}
	theme, err := prefs.ParseTheme(body.Theme)
	if err != nil {
		response.BadRequest(w, "Invalid theme", err.Error())
		return
	}
	if err := h.client.SetTheme(r.Context(), theme); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, themeBody{Theme: string(theme)})
}

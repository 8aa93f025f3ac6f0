package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/bookmap/internal/server/response"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/prefs"
)

type browseBody struct {
	Query string `json:"q"`
	Sort  string `json:"sort"`
	View  string `json:"view"`
}

// browseState is the applied browse state and its URL query string.
type browseState struct {
	prefs.URLState
	Search string `json:"search"`
}

// HandleBrowse handles PUT /api/browse. A given sort or view is announced
// with a notification; the response carries the query string to put in
// the address bar, defaults omitted.
func (h *Handlers) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	var body browseBody
	if err := decode(r, w, &body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	state := prefs.DefaultURLState()
	state.Query = body.Query
	if body.Sort != "" {
		sort, ok := books.ParseSort(body.Sort)
		if !ok {
			response.BadRequest(w, "Invalid sort", "unknown sort order "+strconv.Quote(body.Sort))
			return
		}
		state.Sort = sort
	}
	if body.View != "" {
		state.View = books.ViewMode(body.View)
		if !state.View.Valid() {
			response.BadRequest(w, "Invalid view", "unknown view mode "+strconv.Quote(body.View))
			return
		}
	}

	ctx := r.Context()
	if body.Sort != "" {
		if err := h.client.ChangeSort(ctx, state.Sort); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}
	if body.View != "" {
		if err := h.client.ChangeView(ctx, state.View); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}
	response.OK(w, browseState{URLState: state, Search: state.Encode()})
}

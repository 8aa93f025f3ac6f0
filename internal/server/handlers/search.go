package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/bookmap/internal/server/response"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/openlibrary"
	"github.com/agentstation/bookmap/pkg/prefs"
)

// HandleSearch handles GET /api/search?q=&offset=&limit=&sort=&view=.
// Upstream failures answer with an empty result and the error.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	state := prefs.ParseURLState(params)
	if s := params.Get(prefs.ParamSort); s != "" {
		sort, ok := books.ParseSort(s)
		if !ok {
			response.BadRequest(w, "Invalid sort", "unknown sort order "+strconv.Quote(s))
			return
		}
		state.Sort = sort
	}
	if v := params.Get(prefs.ParamView); v != "" && !books.ViewMode(v).Valid() {
		response.BadRequest(w, "Invalid view", "unknown view mode "+strconv.Quote(v))
		return
	}

	q := openlibrary.Query{Text: state.Query, Sort: state.Sort}
	var err error
	if q.Offset, err = intParam(params.Get("offset")); err != nil {
		response.BadRequest(w, "Invalid offset", err.Error())
		return
	}
	if q.Limit, err = intParam(params.Get("limit")); err != nil {
		response.BadRequest(w, "Invalid limit", err.Error())
		return
	}

	resp, err := h.client.Search(r.Context(), q)
	switch {
	case err == nil:
		response.OK(w, resp)
	case errors.IsValidationError(err):
		response.BadRequest(w, "Invalid search", err.Error())
	default:
		response.Degraded(w, resp, err)
	}
}

// HandleWork handles GET /api/works/{id}.
func (h *Handlers) HandleWork(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	work, err := h.client.Work(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, work)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.NewValidationError("", n, "must not be negative")
	}
	return n, nil
}

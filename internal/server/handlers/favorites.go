package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/bookmap/internal/server/response"
	"github.com/agentstation/bookmap/pkg/books"
)

// HandleListFavorites handles GET /api/favorites.
func (h *Handlers) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.client.Favorites(r.Context()))
}

// HandleAddFavorite handles POST /api/favorites with a book document body.
func (h *Handlers) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var book books.Book
	if err := decode(r, w, &book); err != nil {
		response.BadRequest(w, "Invalid book", err.Error())
		return
	}
	if book.Key == "" || book.Title == "" {
		response.BadRequest(w, "Invalid book", "key and title are required")
		return
	}
	book.Key = books.WorkKey(book.Key)

	set, err := h.client.AddFavorite(r.Context(), book)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, set)
}

// HandleRemoveFavorite handles DELETE /api/favorites/{key}. The key may
// be a bare work id.
func (h *Handlers) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	set, err := h.client.RemoveFavorite(r.Context(), books.WorkKey(chi.URLParam(r, "key")))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, set)
}

// HandleClearFavorites handles DELETE /api/favorites.
func (h *Handlers) HandleClearFavorites(w http.ResponseWriter, r *http.Request) {
	set, err := h.client.ClearFavorites(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, set)
}

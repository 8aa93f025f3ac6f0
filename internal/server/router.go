package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agentstation/bookmap/internal/server/handlers"
	"github.com/agentstation/bookmap/internal/server/middleware"
	"github.com/agentstation/bookmap/internal/server/response"
)

// setupRouter builds the route table and middleware chain.
func (s *Server) setupRouter() http.Handler {
	h := handlers.New(s.client, s.events, s.logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	if s.config.CORSEnabled {
		cors := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			cors.AllowedOrigins = s.config.CORSOrigins
		}
		r.Use(middleware.CORS(cors))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found", r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	r.Get("/health", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Get("/works/{id}", h.HandleWork)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.HandleListFavorites)
			r.Post("/", h.HandleAddFavorite)
			r.Delete("/", h.HandleClearFavorites)
			r.Delete("/{key}", h.HandleRemoveFavorite)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.HandleListNotifications)
			r.Delete("/", h.HandleClearNotifications)
			r.Post("/read", h.HandleMarkAllRead)
			r.Post("/{id}/read", h.HandleMarkRead)
			r.Delete("/{id}", h.HandleRemoveNotification)
		})

		r.Put("/browse", h.HandleBrowse)

		r.Get("/theme", h.HandleGetTheme)
		r.Put("/theme", h.HandleSetTheme)

		r.Get("/events", h.HandleEvents)
	})

	return r
}

package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", c.createRoom)
			r.Get("/", c.listRooms)
			r.Get("/{room-id}", c.getRoom)
		})

		r.Post("/auth/token", c.mintToken)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/resolve", c.resolveTrack)
			r.Get("/search", c.searchCatalog)
			r.Post("/{source}/like", c.likeItem)
		})
	})

	r.Get("/streaming/rooms/{room-id}", c.streamRoom)

	return r
}

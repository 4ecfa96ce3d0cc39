package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/handlers"
)

func init() { Register(registerCafes) }

func registerCafes(r chi.Router, d deps.Deps) {
	r.Route("/api/cafes", func(r chi.Router) {
		r.Get("/", handlers.ListCafes(d))
		r.Get("/nearby", handlers.NearbyCafes(d))
		r.Get("/open", handlers.OpenCafes(d))
		r.Get("/search", handlers.SearchCafes(d))
		r.Get("/{id}", handlers.GetCafe(d))
	})

	r.Post("/api/hours/encode", handlers.EncodeHours(d))
	r.Post("/api/hours/decode", handlers.DecodeHours(d))
}

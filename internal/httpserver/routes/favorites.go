package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/handlers"
)

func init() { Register(registerFavorites) }

func registerFavorites(r chi.Router, d deps.Deps) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Get("/", handlers.ListFavorites(d))
		r.Get("/{id}", handlers.IsFavorite(d))
		r.Put("/{id}", handlers.AddFavorite(d))
		r.Delete("/{id}", handlers.RemoveFavorite(d))
		r.Post("/{id}/toggle", handlers.ToggleFavorite(d))
	})
}

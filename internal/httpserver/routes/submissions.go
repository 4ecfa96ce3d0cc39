package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/auth"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/mw"
)

func init() { Register(registerSubmissions) }

func registerSubmissions(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/api/submissions", handlers.CreateSubmission(d))

	admin := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	admin.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/admin/token", handlers.AdminToken(d))

	admin.Route("/api/admin/submissions", func(r chi.Router) {
		r.Use(auth.RequireAdmin(d.Auth))
		r.Get("/", handlers.PendingSubmissions(d))
		r.Post("/{id}/approve", handlers.ReviewSubmission(d, true))
		r.Post("/{id}/reject", handlers.ReviewSubmission(d, false))
	})

	admin.With(auth.RequireAdmin(d.Auth)).Delete("/api/admin/cafes/{id}", handlers.DelistCafe(d))
}

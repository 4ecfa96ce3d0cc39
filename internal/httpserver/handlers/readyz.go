package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz is ready once cafes are indexed and, when configured, Redis answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		if d.CafeIndex.Count() == 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "no cafes loaded"})
			return
		}

		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "redis unreachable"})
				return
			}
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}

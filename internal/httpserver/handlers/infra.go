package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
)

type componentStatus struct {
	OK                 bool   `json:"ok"`
	CafesLoaded        *int   `json:"cafes_loaded,omitempty"`
	PendingSubmissions *int   `json:"pending_submissions,omitempty"`
	LastReload         string `json:"last_reload,omitempty"`
	Mode               string `json:"mode,omitempty"`
	Impact             string `json:"impact,omitempty"`
	Error              string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the dataset and storage components
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cafesCount := d.CafeIndex.Count()
		pending := len(d.CafeIndex.PendingSubmissions())
		lastReload := d.CafeIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"dataset": {
				OK:          cafesCount > 0,
				CafesLoaded: &cafesCount,
				LastReload:  lastReloadStr,
			},
			"submissions": {
				OK:                 true,
				PendingSubmissions: &pending,
			},
			"redis": checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if dataset, exists := components["dataset"]; exists {
		if !dataset.OK {
			return "critical" // nothing to serve
		}
	}

	// Redis down = favorites and submissions are not durable
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	return "optimal"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory",
			Impact: "favorites-and-submissions-not-persisted",
			Error:  "redis not configured",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "favorites-and-submissions-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "none",
	}
}

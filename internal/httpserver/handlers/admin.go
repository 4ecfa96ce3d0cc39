package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/auth"
	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	"github.com/MrSnakeDoc/ruangkopi/internal/utils"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminToken exchanges admin credentials for a bearer token
func AdminToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}

		token, expires, err := d.Auth.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				d.Logger.Warn("admin login failed",
					logger.String("username", req.Username),
					logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			d.Logger.Error("failed to issue admin token", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
	}
}

// DelistCafe removes an approved submission from the listing.
// Dataset cafes are managed in the dataset file and cannot be delisted here.
func DelistCafe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cafe, ok := d.CafeIndex.GetCafe(id)
		if !ok {
			writeError(w, http.StatusNotFound, "cafe not found")
			return
		}
		if cafe.Source != domain.SourceSubmission {
			writeError(w, http.StatusConflict, "dataset cafes are edited in the dataset file")
			return
		}

		d.CafeIndex.DeleteCafe(id)
		if d.Store != nil {
			if err := d.Store.DeleteCafe(r.Context(), id); err != nil {
				d.Logger.Warn("failed to delete delisted cafe",
					logger.String("cafe_id", id),
					logger.Error(err))
			}
		}

		d.Logger.Info("cafe delisted", logger.String("cafe_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

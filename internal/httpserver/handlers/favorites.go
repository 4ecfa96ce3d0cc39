package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/favorites"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
)

// ClientHeader identifies whose favorites a request reads or writes.
const ClientHeader = "X-Client-ID"

const maxClientIDLen = 128

type favoriteState struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// clientStore resolves the caller's favorites store, writing a 400 when the
// client id is unusable.
func clientStore(d deps.Deps, w http.ResponseWriter, r *http.Request) (*favorites.Store, bool) {
	client := strings.TrimSpace(r.Header.Get(ClientHeader))
	if len(client) > maxClientIDLen || strings.ContainsAny(client, ": \t") {
		writeError(w, http.StatusBadRequest, "invalid "+ClientHeader)
		return nil, false
	}
	return d.Favorites.For(client), true
}

// ListFavorites returns the caller's favorites in insertion order
func ListFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := clientStore(d, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, store.List(r.Context()))
	}
}

// IsFavorite reports whether the cafe is a favorite of the caller
func IsFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := clientStore(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		writeJSON(w, http.StatusOK, favoriteState{ID: id, Favorite: store.Contains(r.Context(), id)})
	}
}

// AddFavorite stores a snapshot of an indexed cafe
func AddFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := clientStore(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		cafe, found := d.CafeIndex.GetCafe(id)
		if !found {
			writeError(w, http.StatusNotFound, "cafe not found")
			return
		}

		store.Add(r.Context(), *cafe)
		writeJSON(w, http.StatusOK, favoriteState{ID: id, Favorite: store.Contains(r.Context(), id)})
	}
}

// RemoveFavorite drops a cafe from the caller's favorites.
// The cafe does not need to be indexed anymore.
func RemoveFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := clientStore(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		store.Remove(r.Context(), id)
		writeJSON(w, http.StatusOK, favoriteState{ID: id, Favorite: store.Contains(r.Context(), id)})
	}
}

// ToggleFavorite flips membership and returns the new state
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := clientStore(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		if cafe, found := d.CafeIndex.GetCafe(id); found {
			writeJSON(w, http.StatusOK, favoriteState{ID: id, Favorite: store.Toggle(r.Context(), *cafe)})
			return
		}

		// delisted cafes can only be toggled off
		if !store.RemoveExisting(r.Context(), id) {
			writeError(w, http.StatusNotFound, "cafe not found")
			return
		}
		writeJSON(w, http.StatusOK, favoriteState{ID: id, Favorite: false})
	}
}

package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
)

type cafesResponse struct {
	Count int            `json:"count"`
	Cafes []*domain.Cafe `json:"cafes"`
}

type nearbyResponse struct {
	Center   domain.GeoPoint     `json:"center"`
	RadiusKm float64             `json:"radiusKm"`
	Count    int                 `json:"count"`
	Cafes    []domain.NearbyCafe `json:"cafes"`
}

// ListCafes returns every indexed cafe sorted by name
func ListCafes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cafes := d.CafeIndex.GetAllCafes()
		writeJSON(w, http.StatusOK, cafesResponse{Count: len(cafes), Cafes: cafes})
	}
}

// GetCafe returns one cafe by id
func GetCafe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cafe, ok := d.CafeIndex.GetCafe(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "cafe not found")
			return
		}
		writeJSON(w, http.StatusOK, cafe)
	}
}

type searchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []domain.SearchResult `json:"results"`
}

// SearchCafes ranks cafes by how well their name and tags match ?q=
func SearchCafes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}

		results := domain.SearchCafes(query, d.CafeIndex.GetAllCafes())
		if results == nil {
			results = []domain.SearchResult{}
		}
		writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(results), Results: results})
	}
}

// NearbyCafes returns cafes around lat/lon, nearest first.
// Missing coordinates fall back to the configured centre, a missing radius to
// the default radius. radius=0 disables the radius filter.
func NearbyCafes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		center := d.Center
		latStr, lonStr := q.Get("lat"), q.Get("lon")
		if latStr != "" || lonStr != "" {
			lat, errLat := parseCoord(latStr, 90)
			lon, errLon := parseCoord(lonStr, 180)
			if errLat != nil || errLon != nil {
				writeError(w, http.StatusBadRequest, "lat and lon must both be valid coordinates")
				return
			}
			center = domain.GeoPoint{Lat: lat, Lon: lon}
		}

		radius := d.DefaultRadiusKm
		if v := q.Get("radius"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				writeError(w, http.StatusBadRequest, "radius must be a non-negative number of kilometres")
				return
			}
			radius = f
		}

		nearby := d.CafeIndex.Nearby(center, radius)
		writeJSON(w, http.StatusOK, nearbyResponse{
			Center:   center,
			RadiusKm: radius,
			Count:    len(nearby),
			Cafes:    nearby,
		})
	}
}

// OpenCafes returns cafes open at ?at= (RFC3339), or now.
func OpenCafes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at := d.Now()
		if v := r.URL.Query().Get("at"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "at must be an RFC3339 timestamp")
				return
			}
			at = t
		}

		cafes := d.CafeIndex.OpenAt(at)
		if cafes == nil {
			cafes = []*domain.Cafe{}
		}
		writeJSON(w, http.StatusOK, cafesResponse{Count: len(cafes), Cafes: cafes})
	}
}

type coordError string

func (e coordError) Error() string { return string(e) }

func parseCoord(s string, limit float64) (float64, error) {
	if s == "" {
		return 0, coordError("missing coordinate")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < -limit || f > limit {
		return 0, coordError("coordinate out of range")
	}
	return f, nil
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedCount int

func (f fixedCount) Count() int { return int(f) }

func TestFavoriteCounters(t *testing.T) {
	m := New(nil)

	m.FavoriteOp("add", true)
	m.FavoriteOp("add", true)
	m.FavoriteOp("add", false)
	m.StorageError("write")

	if got := testutil.ToFloat64(m.favoriteOps.WithLabelValues("add", "ok")); got != 2 {
		t.Errorf("favorites_ops_total{add,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.favoriteOps.WithLabelValues("add", "failed")); got != 1 {
		t.Errorf("favorites_ops_total{add,failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.storageErrors.WithLabelValues("write")); got != 1 {
		t.Errorf("storage_errors_total{write} = %v, want 1", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(fixedCount(7))

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/cafes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cafes/"+id, nil))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/cafes/{id}", "404")); got != 2 {
		t.Errorf("http_requests_total = %v, want 2", got)
	}
}

func TestHandlerExposesGauge(t *testing.T) {
	m := New(fixedCount(7))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "ruangkopi_cafes_indexed 7") {
		t.Errorf("metrics output missing cafes gauge:\n%s", rec.Body.String())
	}
}

package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"kopi.example.com", "kopi.example.com", true},
		{"admin.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evil.com", "*.example.com", false},
		{"kopi.example.com", "other.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestLimiterAllow(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	if ok, _, _ := l.allow("1.2.3.4", now); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _, _ := l.allow("1.2.3.4", now); !ok {
		t.Fatal("second request within burst should pass")
	}
	ok, _, retry := l.allow("1.2.3.4", now)
	if ok {
		t.Fatal("third request should be limited")
	}
	if retry != 1 {
		t.Errorf("retry after = %d, want 1", retry)
	}
	if ok, _, _ := l.allow("5.6.7.8", now); !ok {
		t.Error("other IPs have their own bucket")
	}
	if ok, _, _ := l.allow("1.2.3.4", now.Add(time.Second)); !ok {
		t.Error("bucket should refill one token per second")
	}
}

func TestRateLimitHeaders(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("first response = %d remaining=%q", rec.Code, rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Errorf("second response = %d retry=%q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	log := logger.New("error", false)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, log)(next)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed IP status = %d", rec.Code)
	}

	req.RemoteAddr = "192.0.2.1:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("rejected IP status = %d, want 403", rec.Code)
	}
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/ruangkopi/internal/auth"
	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/favorites"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	"github.com/MrSnakeDoc/ruangkopi/internal/metrics"
)

var surabaya = domain.GeoPoint{Lat: -7.2575, Lon: 112.7521}

// Monday 2026-10-12 12:00 UTC
var fixedNow = time.Date(2026, 10, 12, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router  http.Handler
	index   *index.CafeIndex
	kv      *favorites.MemoryKV
	trigger chan struct{}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.New("error", false)

	idx := index.NewCafeIndex()
	idx.ReplaceSource(domain.SourceDataset, []*domain.Cafe{
		{ID: "tunjungan", Name: "Kopi Tunjungan", Source: domain.SourceDataset, Location: surabaya, OpeningHours: "Mo-Fr 08:00-22:00; Sa 10:00-20:00; Su off"},
		{ID: "gubeng", Name: "Warkop Gubeng", Source: domain.SourceDataset, Location: domain.GeoPoint{Lat: -7.2675, Lon: 112.7621}, OpeningHours: "Mo-Su 07:00-23:00"},
		{ID: "sidoarjo", Name: "Kopi Sidoarjo", Source: domain.SourceDataset, Location: domain.GeoPoint{Lat: -7.45, Lon: 112.72}},
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("kopi-susu"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	kv := favorites.NewMemoryKV()
	m := metrics.New(idx)
	trigger := make(chan struct{}, 1)

	d := deps.Deps{
		Logger:          log,
		StartTime:       fixedNow,
		Version:         "test",
		TimeNow:         func() time.Time { return fixedNow },
		RateBurst:       100,
		RatePerMin:      100,
		CafeIndex:       idx,
		Favorites:       favorites.NewClients(kv, log, favorites.WithObserver(m), favorites.WithClock(func() time.Time { return fixedNow })),
		Encoder:         domain.NewHoursEncoder(true),
		DefaultRadiusKm: 5,
		Center:          surabaya,
		Auth:            auth.NewAuthenticator("admin", string(hash), []byte("test-secret-0123456789"), time.Hour),
		Metrics:         m,
		ReloadTrigger:   trigger,
	}

	return &testEnv{router: NewRouter(log, d), index: idx, kv: kv, trigger: trigger}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
}

func TestCafeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"list", "/api/cafes", http.StatusOK, `"count":3`},
		{"by id", "/api/cafes/gubeng", http.StatusOK, `"name":"Warkop Gubeng"`},
		{"unknown id", "/api/cafes/missing", http.StatusNotFound, "cafe not found"},
		{"nearby default centre", "/api/cafes/nearby", http.StatusOK, `"count":2`},
		{"nearby no radius filter", "/api/cafes/nearby?radius=0", http.StatusOK, `"count":3`},
		{"nearby formatted distance", "/api/cafes/nearby?lat=-7.2575&lon=112.7521&radius=2", http.StatusOK, `"distance":"1.6 km"`},
		{"nearby half position", "/api/cafes/nearby?lat=-7.2", http.StatusBadRequest, "lat and lon"},
		{"nearby bad radius", "/api/cafes/nearby?radius=-1", http.StatusBadRequest, "radius"},
		{"open now", "/api/cafes/open", http.StatusOK, `"count":2`},
		{"open sunday", "/api/cafes/open?at=2026-10-18T12:00:00Z", http.StatusOK, `"count":1`},
		{"search", "/api/cafes/search?q=gubeng", http.StatusOK, `"id":"gubeng"`},
		{"search without query", "/api/cafes/search", http.StatusBadRequest, "q is required"},
		{"open bad time", "/api/cafes/open?at=noon", http.StatusBadRequest, "RFC3339"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, "", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHoursEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/hours/encode",
		`{"monday":{"isOpen":true,"slots":[{"open":"08:00","close":"22:00"}]},
		  "tuesday":{"isOpen":true,"slots":[{"open":"08:00","close":"22:00"}]},
		  "wednesday":{"isOpen":true,"slots":[{"open":"08:00","close":"22:00"}]},
		  "thursday":{"isOpen":true,"slots":[{"open":"08:00","close":"22:00"}]},
		  "friday":{"isOpen":true,"slots":[{"open":"08:00","close":"22:00"}]},
		  "saturday":{"isOpen":true,"slots":[{"open":"10:00","close":"20:00"}]}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode status = %d, body %s", rec.Code, rec.Body.String())
	}
	var encoded struct {
		OpeningHours string `json:"openingHours"`
	}
	decode(t, rec, &encoded)
	if want := "Mo-Fr 08:00-22:00; Sa 10:00-20:00; Su off"; encoded.OpeningHours != want {
		t.Errorf("encode = %q, want %q", encoded.OpeningHours, want)
	}

	rec = env.do(t, http.MethodPost, "/api/hours/decode", `{"openingHours":"Mo-Su 07:00-23:00"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("decode status = %d, body %s", rec.Code, rec.Body.String())
	}
	var schedule domain.WeeklySchedule
	decode(t, rec, &schedule)
	if !schedule[domain.Sunday].IsOpen || schedule[domain.Sunday].Slots[0].Close != "23:00" {
		t.Errorf("decoded sunday = %+v", schedule[domain.Sunday])
	}

	rec = env.do(t, http.MethodPost, "/api/hours/decode", `{"openingHours":"Xx 08:00-22:00"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed decode status = %d, want 400", rec.Code)
	}
}

func TestFavoritesFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := map[string]string{"X-Client-ID": "alice"}

	if rec := env.do(t, http.MethodPut, "/api/favorites/gubeng", "", alice); rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/api/favorites/tunjungan", "", alice); rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	// duplicate add is a no-op
	env.do(t, http.MethodPut, "/api/favorites/gubeng", "", alice)

	rec := env.do(t, http.MethodGet, "/api/favorites", "", alice)
	var list []domain.Favorite
	decode(t, rec, &list)
	if len(list) != 2 || list[0].ID != "gubeng" || list[1].ID != "tunjungan" {
		t.Fatalf("favorites = %+v, want [gubeng tunjungan]", list)
	}
	if list[0].AddedAt != fixedNow.UnixMilli() {
		t.Errorf("addedAt = %d, want %d", list[0].AddedAt, fixedNow.UnixMilli())
	}

	// anonymous client sees nothing
	rec = env.do(t, http.MethodGet, "/api/favorites", "", nil)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("anonymous favorites = %s, want []", rec.Body.String())
	}

	var state struct {
		Favorite bool `json:"favorite"`
	}
	rec = env.do(t, http.MethodPost, "/api/favorites/gubeng/toggle", "", alice)
	decode(t, rec, &state)
	if state.Favorite {
		t.Error("toggle of a favorite should remove it")
	}
	rec = env.do(t, http.MethodGet, "/api/favorites/gubeng", "", alice)
	decode(t, rec, &state)
	if state.Favorite {
		t.Error("gubeng should no longer be a favorite")
	}

	rec = env.do(t, http.MethodPost, "/api/favorites/gubeng/toggle", "", alice)
	decode(t, rec, &state)
	if !state.Favorite {
		t.Error("second toggle should add it back")
	}

	env.do(t, http.MethodDelete, "/api/favorites/tunjungan", "", alice)
	data, _ := env.kv.Get(context.Background(), favorites.Key("alice"))
	var stored []map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored favorites are not a JSON array: %v", err)
	}
	if len(stored) != 1 || stored[0]["id"] != "gubeng" {
		t.Errorf("stored favorites = %v", stored)
	}

	if rec := env.do(t, http.MethodPut, "/api/favorites/missing", "", alice); rec.Code != http.StatusNotFound {
		t.Errorf("adding unknown cafe status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/favorites", "", map[string]string{"X-Client-ID": "a:b"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid client id status = %d, want 400", rec.Code)
	}
}

func TestToggleFavoriteDelistedCafe(t *testing.T) {
	env := newTestEnv(t)
	bob := map[string]string{"X-Client-ID": "bob"}

	env.do(t, http.MethodPut, "/api/favorites/sidoarjo", "", bob)
	env.index.DeleteCafe("sidoarjo")

	rec := env.do(t, http.MethodPost, "/api/favorites/sidoarjo/toggle", "", bob)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"favorite":false`) {
		t.Fatalf("toggle of delisted favorite = %d %s, want 200 favorite false", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/favorites/sidoarjo/toggle", "", bob)
	if rec.Code != http.StatusNotFound {
		t.Errorf("toggle of delisted non-favorite status = %d, want 404", rec.Code)
	}
}

func TestToggleFavoriteConcurrent(t *testing.T) {
	env := newTestEnv(t)
	carol := map[string]string{"X-Client-ID": "carol"}
	env.do(t, http.MethodPut, "/api/favorites/gubeng", "", carol)

	const toggles = 10
	results := make(chan bool, toggles)
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/favorites/gubeng/toggle", nil)
			req.Header.Set("X-Client-ID", "carol")
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			var state struct {
				Favorite bool `json:"favorite"`
			}
			_ = json.Unmarshal(rec.Body.Bytes(), &state)
			results <- state.Favorite
		}()
	}
	wg.Wait()
	close(results)

	added := 0
	for fav := range results {
		if fav {
			added++
		}
	}
	if added != toggles/2 {
		t.Errorf("toggles reporting favorite = %d, want %d", added, toggles/2)
	}

	rec := env.do(t, http.MethodGet, "/api/favorites/gubeng", "", carol)
	if !strings.Contains(rec.Body.String(), `"favorite":true`) {
		t.Errorf("after an even number of toggles = %s, want favorite true", rec.Body.String())
	}
}

func TestSubmissionReviewFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/submissions",
		`{"name":"Kopi Baru","location":{"lat":-7.26,"lon":112.74},
		  "hours":{"monday":{"isOpen":true,"slots":[{"open":"08:00","close":"17:00"}]}}}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sub domain.Submission
	decode(t, rec, &sub)
	if sub.Status != domain.StatusPending || sub.Cafe.OpeningHours != "Mo 08:00-17:00; Tu-Su off" {
		t.Errorf("submission = %+v", sub)
	}

	if rec := env.do(t, http.MethodPost, "/api/submissions", `{"name":"","location":{"lat":1,"lon":1}}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("nameless submission status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/submissions", `{"name":"X","location":{"lat":1,"lon":1},"openingHours":"Mo 9-5"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed hours status = %d, want 400", rec.Code)
	}

	// admin endpoints need a token
	if rec := env.do(t, http.MethodGet, "/api/admin/submissions", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d, want 401", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/admin/token", `{"username":"admin","password":"wrong"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/admin/token", `{"username":"admin","password":"kopi-susu"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var tok struct {
		Token string `json:"token"`
	}
	decode(t, rec, &tok)
	bearer := map[string]string{"Authorization": "Bearer " + tok.Token}

	rec = env.do(t, http.MethodGet, "/api/admin/submissions", "", bearer)
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Errorf("pending list = %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/admin/submissions/"+sub.ID+"/approve", `{"note":"ok"}`, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", rec.Code, rec.Body.String())
	}
	if cafe, ok := env.index.GetCafe(sub.ID); !ok || cafe.Source != domain.SourceSubmission {
		t.Errorf("approved cafe not indexed: %v", cafe)
	}

	if rec := env.do(t, http.MethodPost, "/api/admin/submissions/"+sub.ID+"/reject", "", bearer); rec.Code != http.StatusNotFound {
		t.Errorf("second review status = %d, want 404", rec.Code)
	}

	// delisting
	if rec := env.do(t, http.MethodDelete, "/api/admin/cafes/gubeng", "", bearer); rec.Code != http.StatusConflict {
		t.Errorf("delist dataset cafe status = %d, want 409", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/admin/cafes/"+sub.ID, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated delist status = %d, want 401", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/admin/cafes/"+sub.ID, "", bearer); rec.Code != http.StatusNoContent {
		t.Errorf("delist status = %d, want 204", rec.Code)
	}
	if _, ok := env.index.GetCafe(sub.ID); ok {
		t.Error("delisted cafe still indexed")
	}
	if rec := env.do(t, http.MethodDelete, "/api/admin/cafes/"+sub.ID, "", bearer); rec.Code != http.StatusNotFound {
		t.Errorf("second delist status = %d, want 404", rec.Code)
	}
}

func TestOpsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/infra", "", nil)
	if !strings.Contains(rec.Body.String(), `"mode":"degraded"`) {
		t.Errorf("infra without redis = %s, want degraded", rec.Body.String())
	}

	env.do(t, http.MethodGet, "/api/cafes/gubeng", "", nil)
	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "ruangkopi_cafes_indexed 3") {
		t.Error("metrics missing cafes gauge")
	}
	if !strings.Contains(body, `route="/api/cafes/{id}"`) {
		t.Error("metrics missing route pattern label")
	}

	if rec := env.do(t, http.MethodPost, "/reload", "", nil); rec.Code != http.StatusAccepted {
		t.Errorf("first reload status = %d, want 202", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/reload", "", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second reload status = %d, want 429", rec.Code)
	}
	select {
	case <-env.trigger:
	default:
		t.Error("reload did not signal the trigger channel")
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetops/dashboard/internal/constants"
	reqctx "fleetops/dashboard/internal/context"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Middleware(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil)
	req.RemoteAddr = "203.0.113.8:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for a second client, got %d", rec.Code)
	}
}

func TestRateLimiter_LoopbackAndDisabled(t *testing.T) {
	for name, tc := range map[string]struct {
		rps  float64
		addr string
	}{
		"loopback": {rps: 0.001, addr: "127.0.0.1:4000"},
		"disabled": {rps: 0, addr: "203.0.113.7:5000"},
	} {
		t.Run(name, func(t *testing.T) {
			h := NewRateLimiter(tc.rps, 1).Middleware(okHandler)
			for i := 0; i < 5; i++ {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = tc.addr
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				if rec.Code != http.StatusOK {
					t.Fatalf("Expected status 200 on request %d, got %d", i, rec.Code)
				}
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqctx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	store := services.NewSessionStore(time.Hour, nil)
	var ids []string
	h := SessionMiddleware(store, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, reqctx.GetSession(r.Context()).ID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies(), "known session should not be re-issued")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "stale"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, rec.Result().Cookies(), 1)

	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[2])
	assert.Equal(t, 2, store.Count())
}

func TestThemeMiddleware(t *testing.T) {
	var theme string
	h := ThemeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme = reqctx.GetTheme(r.Context())
	}))

	cases := map[string]string{"": "light", "dark": "dark", "neon": "light"}
	for cookie, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: themeCookieName, Value: cookie})
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		if theme != want {
			t.Errorf("Expected theme %q for cookie %q, got %q", want, cookie, theme)
		}
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Get("/api/v1/pages/{page}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/pages/fuel", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/v1/pages/{page}", http.MethodGet, "404"))
	if got != 1 {
		t.Fatalf("Expected 1 request recorded, got %v", got)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"/api/v1/pages/map":                                   "/api/v1/pages/map",
		"/api/v1/trips/42":                                    "/api/v1/trips/{id}",
		"/api/v1/sessions/3f2a9c1e-8b7d-4e6f-9a0b-1c2d3e4f5a6b": "/api/v1/sessions/{id}",
	}
	for in, want := range cases {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}
}

func TestRedactedURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pages/map?real=1&ors_key=secret", nil)

	got := redactedURL(req)

	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "real=1")
}

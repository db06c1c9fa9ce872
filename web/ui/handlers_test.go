package ui

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/middleware"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"
	"fleetops/dashboard/internal/services"
	"fleetops/dashboard/internal/workbook"
	"fleetops/dashboard/internal/workbook/workbooktest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinGeocoder struct{}

func (pinGeocoder) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	return &models.Coordinate{Lat: -25.4 - float64(len(query)%7)/10, Lon: -49.2}, nil
}

func (pinGeocoder) GetProviderType() string { return "pin" }

// noPlanner rejects every key and remembers which ones it saw.
type noPlanner struct {
	mu   sync.Mutex
	keys []string
}

func (p *noPlanner) Directions(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error) {
	p.mu.Lock()
	p.keys = append(p.keys, apiKey)
	p.mu.Unlock()
	return nil, &providers.ProviderError{Code: constants.ErrCodeInvalidAPIKey}
}

func (p *noPlanner) GetProviderType() string { return "none" }

func (p *noPlanner) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type uiClient struct {
	t       *testing.T
	router  http.Handler
	cookie  *http.Cookie
	planner *noPlanner
}

func newUIClient(t *testing.T) *uiClient {
	t.Helper()

	cache := common.NewCacheService(time.Hour, time.Hour)
	sessions := services.NewSessionStore(time.Hour, nil)
	geocoder := services.NewGeocodingService(pinGeocoder{}, cache, config.GeocodingConfig{}, nil)
	planner := &noPlanner{}
	h := NewUIHandler(
		services.NewDashboardService(services.NewMapService(geocoder, services.NewRouteService(planner, cache, nil)), nil),
		services.NewWorkbookService(workbook.NewLoader(4, nil)),
		1<<20,
	)

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(sessions, false))
	r.Use(middleware.ThemeMiddleware)
	r.Get("/", h.HomeHandler)
	r.Get("/pages/{page}", h.PageHandler)
	r.Post("/workbook", h.UploadHandler)
	r.Post("/workbook/clear", h.ClearHandler)
	r.Post("/pages/map/recompute", h.RecomputeHandler)
	r.Post("/pages/map/routing", h.RouteKeyHandler)
	r.Post("/theme", h.SetThemeHandler)

	return &uiClient{t: t, router: r, planner: planner}
}

func (c *uiClient) serve(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()

	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == constants.SessionCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *uiClient) upload(data []byte) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "frota.xlsx")
	require.NoError(c.t, err)
	_, _ = part.Write(data)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/workbook", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.serve(req)
}

func TestHome_ShowsUploadFormWithoutWorkbook(t *testing.T) {
	c := newUIClient(t)

	rec := c.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	assert.Contains(t, rec.Body.String(), `action="/workbook"`)
	assert.NotContains(t, rec.Body.String(), "Remover planilha")
}

func TestUpload_ThenRenderEveryPage(t *testing.T) {
	c := newUIClient(t)

	rec := c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), workbooktest.SampleMaintenance()))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "flash=")

	pages := []string{"/", "/pages/overview?view=complete", "/pages/driver", "/pages/vehicle", "/pages/city",
		"/pages/analyses?view=complete", "/pages/maintenance", "/pages/map?view=complete"}
	for _, path := range pages {
		rec := c.serve(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 for %s, got %d: %s", path, rec.Code, rec.Body.String())
		}
		assert.Contains(t, rec.Body.String(), "Remover planilha", path)
	}
}

func TestUpload_BrokenFileRedirectsWithError(t *testing.T) {
	c := newUIClient(t)

	rec := c.upload([]byte("nope"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=")
}

func TestPage_UnknownIs404(t *testing.T) {
	c := newUIClient(t)
	c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), nil))

	rec := c.serve(httptest.NewRequest(http.MethodGet, "/pages/fuel", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPage_InvalidDateShowsError(t *testing.T) {
	c := newUIClient(t)
	c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), nil))

	rec := c.serve(httptest.NewRequest(http.MethodGet, "/pages/overview?from=ontem", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "expected YYYY-MM-DD")
}

func TestClear_ReturnsToUploadForm(t *testing.T) {
	c := newUIClient(t)
	c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), nil))

	rec := c.serve(httptest.NewRequest(http.MethodPost, "/workbook/clear", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.serve(httptest.NewRequest(http.MethodGet, "/pages/overview", nil))
	assert.Contains(t, rec.Body.String(), `action="/workbook"`)
}

func TestSetTheme(t *testing.T) {
	c := newUIClient(t)

	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=dark"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/pages/city")
	rec := c.serve(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pages/city", rec.Header().Get("Location"))

	var theme *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "theme_preference" {
			theme = ck
		}
	}
	require.NotNil(t, theme)
	assert.Equal(t, "dark", theme.Value)

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	get.AddCookie(theme)
	body := c.serve(get).Body.String()
	assert.Contains(t, body, `data-theme="dark"`)
}

func TestRouteKey_HeldInSessionNotURL(t *testing.T) {
	c := newUIClient(t)
	c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), nil))

	page := c.serve(httptest.NewRequest(http.MethodGet, "/pages/map", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `action="/pages/map/routing"`)
	assert.NotContains(t, page.Body.String(), "Remover chave")

	req := httptest.NewRequest(http.MethodPost, "/pages/map/routing", strings.NewReader("ors_key=segredo"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := c.serve(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "real=1")
	assert.NotContains(t, location, "segredo")

	page = c.serve(httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "segredo")
	assert.Contains(t, page.Body.String(), "Remover chave")

	keys := c.planner.Keys()
	if len(keys) == 0 {
		t.Fatalf("Expected the planner to be called with the session key")
	}
	for _, k := range keys {
		assert.Equal(t, "segredo", k)
	}
}

func TestRouteKey_Clear(t *testing.T) {
	c := newUIClient(t)
	c.upload(workbooktest.Fleet(t, workbooktest.SampleTrips(), nil))

	for _, body := range []string{"ors_key=segredo", "clear=1"} {
		req := httptest.NewRequest(http.MethodPost, "/pages/map/routing", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Equal(t, http.StatusSeeOther, c.serve(req).Code)
	}

	page := c.serve(httptest.NewRequest(http.MethodGet, "/pages/map?real=1", nil))

	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "Remover chave")
	assert.Empty(t, c.planner.Keys(), "no key means straight lines without calling the planner")
}

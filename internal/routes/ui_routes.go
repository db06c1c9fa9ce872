package routes

import (
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"fleetops/dashboard/internal/api"
	"fleetops/dashboard/internal/middleware"
	"fleetops/dashboard/web/ui"

	"github.com/go-chi/chi/v5"
)

// RegisterUIRoutes registers all UI-related routes
func RegisterUIRoutes(r chi.Router, deps *api.Dependencies, sessions func(http.Handler) http.Handler) {
	uiHandler := ui.NewUIHandler(deps.Services.Dashboard, deps.Services.Workbooks, deps.MaxUploadBytes)

	// Static file serving (CSS, JS, images) with correct MIME types
	static, err := fs.Sub(ui.StaticFS, "static")
	if err != nil {
		panic("embedded static assets missing: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(static))
	r.Handle("/static/*", http.StripPrefix("/static/", mimeTypeMiddleware(fileServer)))

	r.Group(func(pages chi.Router) {
		pages.Use(sessions)
		pages.Use(middleware.ThemeMiddleware)

		pages.Get("/", uiHandler.HomeHandler)
		pages.Get("/pages/{page}", uiHandler.PageHandler)
		pages.Post("/pages/map/recompute", uiHandler.RecomputeHandler)
		pages.Post("/pages/map/routing", uiHandler.RouteKeyHandler)
		pages.Post("/workbook", uiHandler.UploadHandler)
		pages.Post("/workbook/clear", uiHandler.ClearHandler)
		pages.Post("/theme", uiHandler.SetThemeHandler)
	})
}

// mimeTypeMiddleware wraps a file server and sets correct MIME types for various file types
func mimeTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		// Set correct MIME type for .mjs files (ES modules)
		if strings.EqualFold(ext, ".mjs") {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		}

		next.ServeHTTP(w, r)
	})
}

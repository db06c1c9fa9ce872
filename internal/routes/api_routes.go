package routes

import (
	"net/http"

	"fleetops/dashboard/internal/api"
	"fleetops/dashboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, limiter *middleware.RateLimiter, sessions func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(sessions)

		v1.Post("/workbook", handlers.UploadWorkbook())
		v1.Delete("/workbook", handlers.ClearWorkbook())
		v1.Get("/filters", handlers.FilterOptions())

		v1.Get("/pages/{page}", handlers.GetPage())
		v1.Get("/map", handlers.GetMap())
		v1.Post("/map/recompute", handlers.RecomputeRoutes())
	})
}

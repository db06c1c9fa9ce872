package routes

import (
	"context"
	"net/http"
	"time"

	"fleetops/dashboard/internal/api"
	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes assembles the HTTP surface around cache. Metrics are registered on reg and served from it.
// Background workers run until ctx is cancelled.
func RegisterRoutes(ctx context.Context, cfg *config.Config, cache common.CacheInterface, reg *prometheus.Registry, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry(reg)

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.Logging)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", constants.RouteKeyHeader, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	deps := api.InitDependencies(ctx, cfg, cache, metricsReg)
	handlers := api.NewHandlers(deps)

	r.Get("/healthCheck", api.HealthCheckHandler(cache, deps.Services.Sessions, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	sessions := middleware.SessionMiddleware(deps.Services.Sessions, cfg.Session.CookieSecure)

	RegisterAPIRoutes(r, handlers, limiter, sessions)
	RegisterUIRoutes(r, deps, sessions)

	return r
}

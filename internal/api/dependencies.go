package api

import (
	"context"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/providers"
	"fleetops/dashboard/internal/services"
	"fleetops/dashboard/internal/workbook"
	"fleetops/dashboard/internal/workers"
)

type Services struct {
	Cache     common.CacheInterface
	Sessions  *services.SessionStore
	Workbooks *services.WorkbookService
	Dashboard *services.DashboardService
}

type Dependencies struct {
	Services *Services
	Workers  *workers.WorkersContainer
	// MaxUploadBytes caps the workbook upload body.
	MaxUploadBytes int64
}

// InitDependencies wires providers and services around the shared cache.
// The warm-up workers stop when ctx is cancelled.
func InitDependencies(ctx context.Context, cfg *config.Config, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *Dependencies {
	geocoder := services.NewGeocodingService(
		providers.NewNominatimProvider(cfg.Geocoding),
		cache,
		cfg.Geocoding,
		metricsReg,
	)
	routes := services.NewRouteService(providers.NewORSProvider(cfg.Routing), cache, metricsReg)
	workbooks := services.NewWorkbookService(workbook.NewLoader(cfg.Cache.WorkbookMemoSize, metricsReg))

	return &Dependencies{
		Services: &Services{
			Cache:     cache,
			Sessions:  services.NewSessionStore(cfg.Session.TTL, metricsReg),
			Workbooks: workbooks,
			Dashboard: services.NewDashboardService(services.NewMapService(geocoder, routes), metricsReg),
		},
		Workers:        workers.InitWorkers(ctx, cfg.Geocoding, geocoder, workbooks),
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	}
}

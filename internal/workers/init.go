package workers

import (
	"context"

	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/services"
)

const warmupQueueDepth = 32

type WorkersContainer struct {
	GeocodeWarmer *GeocodeWarmer
}

// InitWorkers starts the background workers and hooks them to workbook loads.
// A non-positive worker count leaves warm-up off.
func InitWorkers(ctx context.Context, cfg config.GeocodingConfig, geocoder *services.GeocodingService, workbooks *services.WorkbookService) *WorkersContainer {
	if cfg.WarmupWorkers <= 0 {
		return &WorkersContainer{}
	}

	warmer := NewGeocodeWarmer(geocoder, warmupQueueDepth)
	workbooks.OnLoad(func(ds *models.Dataset) {
		warmer.Enqueue(ds)
	})
	go warmer.Start(ctx, cfg.WarmupWorkers)

	return &WorkersContainer{
		GeocodeWarmer: warmer,
	}
}

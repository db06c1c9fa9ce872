package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
)

// CityResolver geocodes every stop of a trip list into the shared cache.
type CityResolver interface {
	ResolveAll(ctx context.Context, trips []models.Trip) map[string]models.CityCoordinate
}

type warmJob struct {
	hash  string
	trips []models.Trip
}

// GeocodeWarmer resolves the cities of freshly loaded workbooks in the background
// so the first map request finds them cached.
type GeocodeWarmer struct {
	resolver CityResolver
	queue    chan warmJob

	mu      sync.Mutex
	pending map[string]bool
}

// NewGeocodeWarmer creates a warmer holding at most depth queued workbooks.
func NewGeocodeWarmer(resolver CityResolver, depth int) *GeocodeWarmer {
	if depth < 1 {
		depth = 1
	}
	return &GeocodeWarmer{
		resolver: resolver,
		queue:    make(chan warmJob, depth),
		pending:  map[string]bool{},
	}
}

// Enqueue schedules ds for warm-up. It never blocks: a full queue or a workbook
// already waiting drops the request.
func (w *GeocodeWarmer) Enqueue(ds *models.Dataset) bool {
	if ds == nil || len(ds.Trips) == 0 {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending[ds.Hash] {
		return false
	}

	select {
	case w.queue <- warmJob{hash: ds.Hash, trips: ds.Trips}:
		w.pending[ds.Hash] = true
		return true
	default:
		logging.Warn("Geocode warm-up queue full, skipping workbook", "hash", ds.Hash)
		return false
	}
}

// Start runs numWorkers consumers until ctx is cancelled.
func (w *GeocodeWarmer) Start(ctx context.Context, numWorkers int) {
	logging.Info("Starting geocode warm-up workers", "workers", numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			w.process(ctx, name)
		}(fmt.Sprintf("geocode-warmer-%d", i))
	}

	wg.Wait()
	logging.Info("Geocode warm-up workers stopped")
}

func (w *GeocodeWarmer) process(ctx context.Context, name string) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			start := time.Now()
			cities := w.resolver.ResolveAll(ctx, job.trips)

			resolved := 0
			for _, c := range cities {
				if c.Resolved() {
					resolved++
				}
			}
			logging.Info("Workbook cities warmed",
				"worker", name,
				"hash", job.hash,
				"cities", len(cities),
				"resolved", resolved,
				"duration_ms", time.Since(start).Milliseconds(),
			)

			w.mu.Lock()
			delete(w.pending, job.hash)
			w.mu.Unlock()
		}
	}
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodingService_Resolve_UsesRegionAndCaches(t *testing.T) {
	geo := cityGeocoder()
	svc := newGeocodingService(geo)

	first := svc.Resolve(context.Background(), "Curitiba", "PR")
	require.True(t, first.Resolved())
	assert.Equal(t, knownCities["Curitiba"], *first.Coord)

	second := svc.Resolve(context.Background(), " curitiba ", "pr")
	assert.Equal(t, first.Coord, second.Coord)
	assert.Equal(t, []string{"Curitiba, PR, Brasil"}, geo.Queries())
}

func TestGeocodingService_Resolve_FallsBackWithoutRegion(t *testing.T) {
	geo := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, query string) (*models.Coordinate, error) {
			if query == "Joinville, Brasil" {
				c := knownCities["Joinville"]
				return &c, nil
			}
			return nil, &providers.ProviderError{Code: constants.ErrCodeNoMatch}
		},
	}
	svc := newGeocodingService(geo)

	got := svc.Resolve(context.Background(), "Joinville", "XX")
	require.True(t, got.Resolved())
	assert.Equal(t, []string{"Joinville, XX, Brasil", "Joinville, Brasil"}, geo.Queries())
}

func TestGeocodingService_Resolve_NoRegionSingleQuery(t *testing.T) {
	geo := cityGeocoder()
	svc := newGeocodingService(geo)

	got := svc.Resolve(context.Background(), "Atlantida", "")
	assert.False(t, got.Resolved())
	assert.Equal(t, []string{"Atlantida, Brasil"}, geo.Queries())

	// misses are cached too
	svc.Resolve(context.Background(), "Atlantida", "")
	assert.Len(t, geo.Queries(), 1)
}

func TestGeocodingService_Resolve_TimeoutBacksOffWithoutFallback(t *testing.T) {
	geo := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, query string) (*models.Coordinate, error) {
			return nil, &providers.ProviderError{Code: constants.ErrCodeTimeout, Message: "timeout"}
		},
	}
	svc := newGeocodingService(geo)

	start := time.Now()
	got := svc.Resolve(context.Background(), "Curitiba", "PR")

	assert.False(t, got.Resolved())
	assert.Len(t, geo.Queries(), 1)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestGeocodingService_Resolve_EmptyCity(t *testing.T) {
	geo := cityGeocoder()
	svc := newGeocodingService(geo)

	got := svc.Resolve(context.Background(), "  ", "PR")
	assert.False(t, got.Resolved())
	assert.Empty(t, geo.Queries())
}

func TestGeocodingService_Resolve_CollapsesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	geo := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, query string) (*models.Coordinate, error) {
			<-release
			c := knownCities["Londrina"]
			return &c, nil
		},
	}
	svc := newGeocodingService(geo)

	var wg sync.WaitGroup
	results := make([]models.CityCoordinate, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Resolve(context.Background(), "Londrina", "PR")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Len(t, geo.Queries(), 1)
	for _, r := range results {
		assert.True(t, r.Resolved())
	}
}

func TestGeocodingService_Resolve_CancelledCallerDoesNotFailOthers(t *testing.T) {
	release := make(chan struct{})
	geo := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, query string) (*models.Coordinate, error) {
			<-release
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c := knownCities["Curitiba"]
			return &c, nil
		},
	}
	svc := newGeocodingService(geo)

	ctxA, cancelA := context.WithCancel(context.Background())
	resultA := make(chan models.CityCoordinate, 1)
	go func() { resultA <- svc.Resolve(ctxA, "Curitiba", "PR") }()
	require.Eventually(t, func() bool { return len(geo.Queries()) == 1 }, time.Second, time.Millisecond)

	resultB := make(chan models.CityCoordinate, 1)
	go func() { resultB <- svc.Resolve(context.Background(), "Curitiba", "PR") }()

	cancelA()
	select {
	case a := <-resultA:
		assert.False(t, a.Resolved())
	case <-time.After(time.Second):
		t.Fatalf("Expected the cancelled caller to return without waiting for the provider")
	}

	close(release)
	select {
	case b := <-resultB:
		if !b.Resolved() {
			t.Fatalf("Expected the live caller to get a coordinate, got unresolved")
		}
	case <-time.After(time.Second):
		t.Fatalf("Expected the live caller to finish")
	}
	assert.Len(t, geo.Queries(), 1)

	// the shared cache keeps the answer
	again := svc.Resolve(context.Background(), "Curitiba", "PR")
	assert.True(t, again.Resolved())
	assert.Len(t, geo.Queries(), 1)
}

func TestGeocodingService_ResolveAll(t *testing.T) {
	geo := cityGeocoder()
	svc := newGeocodingService(geo)

	trips := []models.Trip{
		{ID: 1, Origin: models.Stop{City: "Curitiba", Region: "PR"}, Destinations: [4]models.Stop{{City: "Joinville", Region: "SC"}}},
		{ID: 2, Origin: models.Stop{City: "Curitiba", Region: "PR"}, Destinations: [4]models.Stop{{City: "Nowhere"}}},
	}
	got := svc.ResolveAll(context.Background(), trips)

	assert.Len(t, got, 3)
	assert.True(t, got[CityKey("Curitiba", "PR")].Resolved())
	assert.False(t, got[CityKey("Nowhere", "")].Resolved())
	assert.Len(t, geo.Queries(), 3)
}

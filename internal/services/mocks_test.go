package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"
	"fleetops/dashboard/internal/workbook"
	"fleetops/dashboard/internal/workbook/workbooktest"
)

// mockGeocoder records queries and answers through geocodeFunc.
type mockGeocoder struct {
	mu          sync.Mutex
	queries     []string
	geocodeFunc func(ctx context.Context, query string) (*models.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	return m.geocodeFunc(ctx, query)
}

func (m *mockGeocoder) GetProviderType() string { return "mock_geocoder" }

func (m *mockGeocoder) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// mockPlanner answers through directionsFunc and counts calls.
type mockPlanner struct {
	mu             sync.Mutex
	calls          int
	directionsFunc func(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error)
}

func (m *mockPlanner) Directions(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.directionsFunc(ctx, from, to, apiKey)
}

func (m *mockPlanner) GetProviderType() string { return "mock_planner" }

func (m *mockPlanner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var knownCities = map[string]models.Coordinate{
	"Curitiba":  {Lat: -25.4284, Lon: -49.2733},
	"Joinville": {Lat: -26.3045, Lon: -48.8487},
	"Blumenau":  {Lat: -26.9194, Lon: -49.0661},
	"Londrina":  {Lat: -23.3045, Lon: -51.1696},
}

// cityGeocoder resolves the first element of the query against knownCities.
func cityGeocoder() *mockGeocoder {
	return &mockGeocoder{
		geocodeFunc: func(ctx context.Context, query string) (*models.Coordinate, error) {
			city := strings.TrimSpace(strings.Split(query, ",")[0])
			if c, ok := knownCities[city]; ok {
				return &c, nil
			}
			return nil, &providers.ProviderError{Code: constants.ErrCodeNoMatch, Message: "no match"}
		},
	}
}

// fixedPlanner returns a two-point route of 100 km and 2 hours.
func fixedPlanner() *mockPlanner {
	return &mockPlanner{
		directionsFunc: func(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error) {
			return &providers.Route{
				Points:          []models.Coordinate{from, to},
				DistanceMeters:  100000,
				DurationSeconds: 7200,
			}, nil
		},
	}
}

func newGeocodingService(g providers.Geocoder) *GeocodingService {
	return NewGeocodingService(g, common.NewCacheService(time.Hour, time.Hour), config.GeocodingConfig{
		Backoff: 10 * time.Millisecond,
	}, nil)
}

type testStack struct {
	dashboard *DashboardService
	workbooks *WorkbookService
	sessions  *SessionStore
	geocoder  *mockGeocoder
	planner   *mockPlanner
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	geo := cityGeocoder()
	planner := fixedPlanner()
	shared := common.NewCacheService(time.Hour, time.Hour)
	maps := NewMapService(
		NewGeocodingService(geo, shared, config.GeocodingConfig{}, nil),
		NewRouteService(planner, shared, nil),
	)
	return &testStack{
		dashboard: NewDashboardService(maps, nil),
		workbooks: NewWorkbookService(workbook.NewLoader(4, nil)),
		sessions:  NewSessionStore(time.Hour, nil),
		geocoder:  geo,
		planner:   planner,
	}
}

// loadedSession returns a session holding the sample fleet workbook.
func (s *testStack) loadedSession(t *testing.T) *SessionState {
	t.Helper()

	state := s.sessions.Create()
	data := workbooktest.Fleet(t, workbooktest.SampleTrips(), workbooktest.SampleMaintenance())
	if _, err := s.workbooks.Load(context.Background(), state, "frota.xlsx", data); err != nil {
		t.Fatalf("Failed to load sample workbook: %v", err)
	}
	return state
}

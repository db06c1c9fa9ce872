package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func city(name string) models.CityCoordinate {
	c := knownCities[name]
	return models.CityCoordinate{City: name, Coord: &c}
}

func TestRouteService_StraightWithoutKey(t *testing.T) {
	planner := fixedPlanner()
	svc := NewRouteService(planner, common.NewCacheService(time.Hour, time.Hour), nil)
	cache := NewRouteCache()

	seg := svc.ResolveSegment(context.Background(), cache, 7, 0, city("Curitiba"), city("Joinville"), "")

	assert.False(t, seg.Real)
	assert.Len(t, seg.Points, 2)
	assert.False(t, seg.DistanceKm.Valid)
	assert.False(t, seg.DurationHours.Valid)
	assert.Greater(t, seg.GreatCircleKm, 90.0)
	assert.Equal(t, "Curitiba", seg.From)
	assert.Equal(t, "Joinville", seg.To)
	assert.Equal(t, 0, planner.Calls())
}

func TestRouteService_RealRouteConvertsUnits(t *testing.T) {
	planner := fixedPlanner()
	svc := NewRouteService(planner, common.NewCacheService(time.Hour, time.Hour), nil)
	cache := NewRouteCache()

	seg := svc.ResolveSegment(context.Background(), cache, 7, 1, city("Curitiba"), city("Joinville"), "key")

	assert.True(t, seg.Real)
	assert.Equal(t, 100.0, seg.DistanceKm.Value)
	assert.Equal(t, 2.0, seg.DurationHours.Value)
	assert.Equal(t, 1, seg.Index)

	// cached under the segment id
	again := svc.ResolveSegment(context.Background(), cache, 7, 1, city("Curitiba"), city("Joinville"), "key")
	assert.Equal(t, seg, again)
	assert.Equal(t, 1, planner.Calls())
	_, ok := cache.Segment("7_1")
	assert.True(t, ok)
}

func TestRouteService_FailureFallsBackToStraight(t *testing.T) {
	planner := &mockPlanner{
		directionsFunc: func(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewRouteService(planner, common.NewCacheService(time.Hour, time.Hour), nil)

	seg := svc.ResolveSegment(context.Background(), NewRouteCache(), 1, 0, city("Curitiba"), city("Londrina"), "key")
	assert.False(t, seg.Real)
	assert.Len(t, seg.Points, 2)
	assert.False(t, seg.DistanceKm.Valid)
}

func TestRouteService_FailureIsNotShared(t *testing.T) {
	fail := true
	planner := &mockPlanner{
		directionsFunc: func(ctx context.Context, from, to models.Coordinate, apiKey string) (*providers.Route, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return &providers.Route{Points: []models.Coordinate{from, to}, DistanceMeters: 5000, DurationSeconds: 600}, nil
		},
	}
	svc := NewRouteService(planner, common.NewCacheService(time.Hour, time.Hour), nil)

	first := svc.ResolveSegment(context.Background(), NewRouteCache(), 1, 0, city("Curitiba"), city("Londrina"), "key")
	require.False(t, first.Real)

	fail = false
	second := svc.ResolveSegment(context.Background(), NewRouteCache(), 1, 0, city("Curitiba"), city("Londrina"), "key")

	assert.True(t, second.Real)
	assert.Equal(t, 5.0, second.DistanceKm.Value)
	assert.Equal(t, 2, planner.Calls())
}

func TestRouteService_SharedCacheAcrossSessions(t *testing.T) {
	planner := fixedPlanner()
	svc := NewRouteService(planner, common.NewCacheService(time.Hour, time.Hour), nil)

	a := svc.ResolveSegment(context.Background(), NewRouteCache(), 1, 0, city("Curitiba"), city("Joinville"), "key")
	b := svc.ResolveSegment(context.Background(), NewRouteCache(), 9, 2, city("Curitiba"), city("Joinville"), "key")

	assert.Equal(t, 1, planner.Calls())
	assert.Equal(t, a.DistanceKm, b.DistanceKm)
	assert.Equal(t, 9, b.TripID)
	assert.Equal(t, 2, b.Index)
}

func TestRouteCache_ContextAndInvalidate(t *testing.T) {
	cache := NewRouteCache()
	assert.False(t, cache.EnsureContext("a"))

	cache.PutSegment(SegmentID(1, 0), models.Segment{TripID: 1})
	cache.PutCoordinate("curitiba|PR", city("Curitiba"))
	assert.Equal(t, 1, cache.ResolvedCoordinates())

	assert.False(t, cache.EnsureContext("a"))
	assert.Equal(t, 1, cache.SegmentCount())

	require.Equal(t, 1, cache.Invalidate())
	assert.Equal(t, 0, cache.SegmentCount())
	assert.Equal(t, 0, cache.ResolvedCoordinates())
	_, ok := cache.Coordinate("curitiba|PR")
	assert.False(t, ok)

	cache.PutCoordinate("curitiba|PR", city("Curitiba"))
	assert.True(t, cache.EnsureContext("b"))
	assert.Equal(t, 0, cache.ResolvedCoordinates())
}

func TestContextKey(t *testing.T) {
	trips := []models.Trip{{ID: 1}, {ID: 2}}
	reversed := []models.Trip{{ID: 2}, {ID: 1}}

	assert.Equal(t, ContextKey(trips, false), ContextKey(reversed, false))
	assert.NotEqual(t, ContextKey(trips, false), ContextKey(trips, true))
	assert.NotEqual(t, ContextKey(trips, false), ContextKey([]models.Trip{{ID: 1}, {ID: 3}}, false))
}

package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fleetops/dashboard/internal/analytics"
	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"
)

// RouteCache is a session's memory of resolved coordinates and segments for one
// filter context. Changing the context drops everything.
type RouteCache struct {
	mu          sync.Mutex
	contextKey  string
	segments    map[string]models.Segment
	coordinates map[string]models.CityCoordinate
}

func NewRouteCache() *RouteCache {
	return &RouteCache{
		segments:    map[string]models.Segment{},
		coordinates: map[string]models.CityCoordinate{},
	}
}

// SegmentID names leg index of a trip, e.g. "42_0".
func SegmentID(tripID, index int) string {
	return strconv.Itoa(tripID) + "_" + strconv.Itoa(index)
}

// EnsureContext switches the cache to key, clearing it when key differs from the current one.
// It reports whether anything was dropped.
func (c *RouteCache) EnsureContext(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.contextKey == key {
		return false
	}
	dropped := len(c.segments) > 0 || len(c.coordinates) > 0
	c.contextKey = key
	c.segments = map[string]models.Segment{}
	c.coordinates = map[string]models.CityCoordinate{}
	return dropped
}

// Invalidate forgets every segment and coordinate of the current context and returns
// how many segments there were.
func (c *RouteCache) Invalidate() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.segments)
	c.segments = map[string]models.Segment{}
	c.coordinates = map[string]models.CityCoordinate{}
	return n
}

func (c *RouteCache) Segment(id string) (models.Segment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.segments[id]
	return s, ok
}

func (c *RouteCache) PutSegment(id string, s models.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.segments[id] = s
}

func (c *RouteCache) SegmentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.segments)
}

func (c *RouteCache) Coordinate(key string) (models.CityCoordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cc, ok := c.coordinates[key]
	return cc, ok
}

func (c *RouteCache) PutCoordinate(key string, cc models.CityCoordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coordinates[key] = cc
}

// ResolvedCoordinates counts cities with a known position.
func (c *RouteCache) ResolvedCoordinates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, cc := range c.coordinates {
		if cc.Resolved() {
			n++
		}
	}
	return n
}

// RouteService builds map segments, asking the route planner for road geometry when a key is given.
type RouteService struct {
	planner providers.RoutePlanner
	shared  common.CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewRouteService(planner providers.RoutePlanner, shared common.CacheInterface, m *metrics.MetricsRegistry) *RouteService {
	return &RouteService{planner: planner, shared: shared, metrics: m}
}

// ResolveSegment returns leg index of trip tripID between two resolved cities. Without an
// API key, or on any planner failure, the leg is a straight line with unknown distance.
// Results are remembered in cache under SegmentID.
func (s *RouteService) ResolveSegment(
	ctx context.Context,
	cache *RouteCache,
	tripID, index int,
	from, to models.CityCoordinate,
	apiKey string,
) models.Segment {
	id := SegmentID(tripID, index)
	if seg, ok := cache.Segment(id); ok {
		return seg
	}

	seg := s.straight(tripID, index, from, to)
	if apiKey != "" {
		if planned, ok := s.road(ctx, from, to, apiKey); ok {
			seg.Points = planned.Points
			seg.DistanceKm = planned.DistanceKm
			seg.DurationHours = planned.DurationHours
			seg.Real = true
		}
	}

	if ctx.Err() == nil {
		cache.PutSegment(id, seg)
	}
	return seg
}

func (s *RouteService) straight(tripID, index int, from, to models.CityCoordinate) models.Segment {
	return models.Segment{
		TripID:        tripID,
		Index:         index,
		From:          from.City,
		To:            to.City,
		Points:        []models.Coordinate{*from.Coord, *to.Coord},
		GreatCircleKm: analytics.GreatCircleKm(*from.Coord, *to.Coord),
	}
}

// road fetches a planned route, consulting the process-wide cache first.
func (s *RouteService) road(ctx context.Context, from, to models.CityCoordinate, apiKey string) (models.Segment, bool) {
	key := string(constants.CachePrefixRoute) + common.HashStrings(
		fmt.Sprintf("%.5f,%.5f", from.Coord.Lat, from.Coord.Lon),
		fmt.Sprintf("%.5f,%.5f", to.Coord.Lat, to.Coord.Lon),
		apiKey,
	)

	// failures are not stored, so a later request with a working key retries
	loaded := false
	v, err := s.shared.GetOrSet(key, constants.RouteTTL, func() (any, error) {
		loaded = true
		start := time.Now()
		route, err := s.planner.Directions(ctx, *from.Coord, *to.Coord, apiKey)
		s.metrics.ExternalCall(s.planner.GetProviderType(), outcome(err), time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		return models.Segment{
			Points:        route.Points,
			DistanceKm:    models.Num(route.DistanceMeters / 1000),
			DurationHours: models.Num(route.DurationSeconds / 3600),
			Real:          true,
		}, nil
	})
	if loaded {
		s.metrics.CacheMiss("route")
	} else {
		s.metrics.CacheHit("route")
	}
	if err != nil {
		logging.Warn("Route lookup failed, drawing straight line",
			"from", from.City,
			"to", to.City,
			"error", err.Error(),
		)
		return models.Segment{}, false
	}

	seg, ok := common.Decode[models.Segment](v)
	if !ok {
		logging.Warn("Cached route is unreadable, drawing straight line", "key", key)
		return models.Segment{}, false
	}
	return seg, true
}

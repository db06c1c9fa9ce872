package services

import (
	"context"
	"strings"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/providers"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// GeocodingService resolves city names to coordinates. Results, including misses,
// are cached so each (city, region) pair reaches the provider at most once a day.
type GeocodingService struct {
	provider providers.Geocoder
	cache    common.CacheInterface
	limiter  *rate.Limiter
	group    singleflight.Group
	backoff  time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewGeocodingService(
	provider providers.Geocoder,
	cache common.CacheInterface,
	cfg config.GeocodingConfig,
	m *metrics.MetricsRegistry,
) *GeocodingService {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &GeocodingService{
		provider: provider,
		cache:    cache,
		limiter:  rate.NewLimiter(limit, 1),
		backoff:  cfg.Backoff,
		metrics:  m,
	}
}

// CityKey normalizes a (city, region) pair for lookups.
func CityKey(city, region string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(region))
}

// Resolve never fails: any provider problem yields an unresolved coordinate.
func (s *GeocodingService) Resolve(ctx context.Context, city, region string) models.CityCoordinate {
	city, region = strings.TrimSpace(city), strings.TrimSpace(region)
	unresolved := models.CityCoordinate{City: city, Region: region}
	if city == "" {
		return unresolved
	}

	key := string(constants.CachePrefixGeocode) + CityKey(city, region)
	if v, ok := s.cache.Get(key); ok {
		if cc, ok := common.Decode[models.CityCoordinate](v); ok {
			s.metrics.CacheHit("geocode")
			return cc
		}
	}
	s.metrics.CacheMiss("geocode")

	// The flight is shared by every waiting caller, so it must not stop when the
	// caller that started it goes away. Provider timeouts still bound it.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		cc := s.lookup(context.WithoutCancel(ctx), city, region)
		s.cache.Set(key, cc, constants.GeocodeTTL)
		return cc, nil
	})
	select {
	case res := <-ch:
		return res.Val.(models.CityCoordinate)
	case <-ctx.Done():
		return unresolved
	}
}

// lookup tries "{city}, {region}, Brasil" first, then "{city}, Brasil".
func (s *GeocodingService) lookup(ctx context.Context, city, region string) models.CityCoordinate {
	cc := models.CityCoordinate{City: city, Region: region}

	queries := []string{city + ", Brasil"}
	if region != "" {
		queries = []string{city + ", " + region + ", Brasil", city + ", Brasil"}
	}

	for _, q := range queries {
		coord, err := s.geocode(ctx, q)
		if err == nil {
			cc.Coord = coord
			return cc
		}
		if providers.IsTimeout(err) {
			logging.Warn("Geocoding timed out", "query", q, "error", err.Error())
			s.wait(ctx)
			return cc
		}
		if ctx.Err() != nil {
			return cc
		}
		if !providers.IsNoMatch(err) {
			logging.Warn("Geocoding failed", "query", q, "error", err.Error())
		}
	}

	logging.Debug("City not found", "city", city, "region", region)
	return cc
}

func (s *GeocodingService) geocode(ctx context.Context, query string) (*models.Coordinate, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	coord, err := s.provider.Geocode(ctx, query)
	s.metrics.ExternalCall(s.provider.GetProviderType(), outcome(err), time.Since(start).Seconds())
	return coord, err
}

func (s *GeocodingService) wait(ctx context.Context) {
	if s.backoff <= 0 {
		return
	}
	t := time.NewTimer(s.backoff)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// ResolveAll geocodes every distinct stop of trips, keyed by CityKey.
func (s *GeocodingService) ResolveAll(ctx context.Context, trips []models.Trip) map[string]models.CityCoordinate {
	out := map[string]models.CityCoordinate{}
	for _, t := range trips {
		for _, stop := range t.Itinerary() {
			k := CityKey(stop.City, stop.Region)
			if _, seen := out[k]; seen {
				continue
			}
			if ctx.Err() != nil {
				return out
			}
			out[k] = s.Resolve(ctx, stop.City, stop.Region)
		}
	}
	return out
}

// outcome labels an external call for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case providers.IsNoMatch(err):
		return "no_match"
	case providers.IsTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}

package services

import (
	"context"
	"math"
	"sort"
	"strconv"

	"fleetops/dashboard/internal/analytics"
	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"
)

// MapService lays out trips as geocoded, multi-stop routes.
type MapService struct {
	geocoder *GeocodingService
	routes   *RouteService
}

func NewMapService(geocoder *GeocodingService, routes *RouteService) *MapService {
	return &MapService{geocoder: geocoder, routes: routes}
}

// MapResult is the map page content.
type MapResult struct {
	KPIs     []dtos.KPI
	Insights []models.Insight
	Data     *dtos.MapData
}

// Difference thresholds between planned and registered km.
const (
	diffGreenKm  = 50.0
	diffOrangeKm = 100.0
)

// ContextKey identifies a trip selection and routing mode; cached map state is only
// reused while it stays the same.
func ContextKey(trips []models.Trip, realRouting bool) string {
	ids := make([]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	return common.HashStrings(common.HashIntSet(ids), strconv.FormatBool(realRouting))
}

// Build geocodes every stop of the mappable trips and resolves their legs. apiKey
// empty means straight lines.
func (s *MapService) Build(ctx context.Context, cache *RouteCache, trips []models.Trip, apiKey string, complete bool) MapResult {
	// trips need at least an origin and a first destination to be drawn
	mapped := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if !t.Origin.Missing() && !t.FirstDestination().Missing() {
			mapped = append(mapped, t)
		}
	}

	cache.EnsureContext(ContextKey(mapped, apiKey != ""))
	coords := s.coordinates(ctx, cache, mapped)

	data := &dtos.MapData{
		RealRouting:  apiKey != "",
		Cities:       []dtos.MapCity{},
		Routes:       []dtos.MapRoute{},
		Legend:       []dtos.LegendEntry{},
		StopsPerTrip: []dtos.TripStops{},
	}

	// Visits count every itinerary occurrence, origin included
	visits := map[string]int{}
	var order []string
	for _, t := range mapped {
		for _, st := range t.Itinerary() {
			k := CityKey(st.City, st.Region)
			if visits[k] == 0 {
				order = append(order, k)
			}
			visits[k]++
		}
	}

	var centers []models.Coordinate
	for _, k := range order {
		cc := coords[k]
		if !cc.Resolved() {
			continue
		}
		data.Cities = append(data.Cities, dtos.MapCity{
			City:   cc.City,
			Region: cc.Region,
			Coord:  *cc.Coord,
			Visits: visits[k],
			Radius: 5 + 2*float64(visits[k]),
		})
		centers = append(centers, *cc.Coord)
	}
	data.Center = analytics.Center(centers)

	colors := driverColors(mapped)
	for _, d := range analytics.Drivers(mapped) {
		data.Legend = append(data.Legend, dtos.LegendEntry{Driver: d, Color: colors[d]})
	}

	var registeredKm float64
	for _, t := range mapped {
		registeredKm += t.DistanceKm.Or(0)
		data.StopsPerTrip = append(data.StopsPerTrip, dtos.TripStops{
			TripID:     t.ID,
			Driver:     t.Driver,
			Stops:      t.StopCount(),
			DistanceKm: t.DistanceKm,
		})

		route, ok := s.route(ctx, cache, t, coords, apiKey, colors)
		if !ok {
			continue
		}
		data.TotalSegments += len(route.Segments)
		data.Routes = append(data.Routes, route)
	}

	ranking := rankCities(data.Cities)
	if complete {
		data.Ranking = ranking
		for _, c := range data.Cities {
			data.TotalVisits += c.Visits
		}
		if len(data.Cities) > 0 {
			data.MeanVisits = float64(data.TotalVisits) / float64(len(data.Cities))
		}
	}

	resolved := cache.ResolvedCoordinates()
	return MapResult{
		Data: data,
		KPIs: []dtos.KPI{
			{Label: "Cidades Mapeadas", Value: common.FormatNumber(float64(resolved))},
			{Label: "Viagens no Mapa", Value: common.FormatNumber(float64(len(mapped)))},
			{Label: "KM Registrado", Value: common.FormatNumber(registeredKm) + " km"},
			{Label: "Total de Viagens", Value: common.FormatNumber(float64(len(trips)))},
		},
		Insights: analytics.MapInsights(ranking, data.StopsPerTrip, data.TotalSegments, resolved),
	}
}

// coordinates resolves each distinct stop once per filter context.
func (s *MapService) coordinates(ctx context.Context, cache *RouteCache, trips []models.Trip) map[string]models.CityCoordinate {
	out := map[string]models.CityCoordinate{}
	for _, t := range trips {
		for _, st := range t.Itinerary() {
			k := CityKey(st.City, st.Region)
			if _, seen := out[k]; seen {
				continue
			}
			if cc, ok := cache.Coordinate(k); ok {
				out[k] = cc
				continue
			}
			cc := s.geocoder.Resolve(ctx, st.City, st.Region)
			if ctx.Err() != nil {
				return out
			}
			cache.PutCoordinate(k, cc)
			out[k] = cc
		}
	}
	return out
}

func (s *MapService) route(
	ctx context.Context,
	cache *RouteCache,
	t models.Trip,
	coords map[string]models.CityCoordinate,
	apiKey string,
	colors map[string]string,
) (dtos.MapRoute, bool) {
	var stops []models.CityCoordinate
	for _, st := range t.Itinerary() {
		if cc := coords[CityKey(st.City, st.Region)]; cc.Resolved() {
			stops = append(stops, cc)
		}
	}
	if len(stops) < 2 {
		return dtos.MapRoute{}, false
	}

	color, ok := colors[t.Driver]
	if !ok {
		color = constants.DefaultRouteColor
	}
	route := dtos.MapRoute{
		TripID:       t.ID,
		Driver:       t.Driver,
		Vehicle:      t.Vehicle,
		Color:        color,
		RegisteredKm: t.DistanceKm,
		FinalCost:    t.FinalCost,
		KmPerLiter:   t.KmPerLiter,
	}

	var km, hours float64
	var measured bool
	for i := 0; i < len(stops)-1; i++ {
		seg := s.routes.ResolveSegment(ctx, cache, t.ID, i, stops[i], stops[i+1], apiKey)
		route.Segments = append(route.Segments, seg)
		if seg.DistanceKm.Valid {
			km += seg.DistanceKm.Value
			hours += seg.DurationHours.Or(0)
			measured = true
		}
	}
	for _, st := range stops {
		route.Stops = append(route.Stops, st.City)
	}

	if measured {
		route.RealKm = models.Num(km)
		route.RealHours = models.Num(hours)
		if t.DistanceKm.Valid {
			route.DiffKm = models.Num(km - t.DistanceKm.Value)
			route.DiffClass = diffClass(route.DiffKm.Value)
		}
	}
	return route, true
}

func diffClass(diff float64) string {
	switch d := math.Abs(diff); {
	case d < diffGreenKm:
		return "green"
	case d < diffOrangeKm:
		return "orange"
	default:
		return "red"
	}
}

// driverColors assigns palette entries to drivers in first-seen order.
func driverColors(trips []models.Trip) map[string]string {
	colors := map[string]string{}
	for _, t := range trips {
		if _, ok := colors[t.Driver]; ok || t.Driver == "" {
			continue
		}
		colors[t.Driver] = constants.DriverPalette[len(colors)%len(constants.DriverPalette)]
	}
	return colors
}

// rankCities orders cities by visits, most visited first; ties keep name order.
func rankCities(cities []dtos.MapCity) []dtos.CityVisit {
	sorted := append([]dtos.MapCity(nil), cities...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].City < sorted[j].City })
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Visits > sorted[j].Visits })

	out := make([]dtos.CityVisit, len(sorted))
	for i, c := range sorted {
		out[i] = dtos.CityVisit{Rank: i + 1, City: c.City, Visits: c.Visits}
	}
	return out
}

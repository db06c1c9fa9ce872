package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixGeocode  CachePrefix = "GEO_"
	CachePrefixRoute    CachePrefix = "ROUTE_"
	CachePrefixSession  CachePrefix = "SESSION_"
	CachePrefixWorkbook CachePrefix = "WORKBOOK_"
)

const (
	GeocodeTTL = 24 * time.Hour
	RouteTTL   = 24 * time.Hour

	// UtilizationGoal is the target share of days a vehicle spends on the road.
	UtilizationGoal = 75.0

	SessionCookieName = "fleet_session"
	RouteKeyHeader    = "X-ORS-Key"
)

// DriverPalette colours trips on the map, assigned by driver in first-seen order.
var DriverPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F38181", "#AA96DA", "#95E1D3",
}

// DefaultRouteColor is used when a driver has no palette entry.
const DefaultRouteColor = "#1f77b4"

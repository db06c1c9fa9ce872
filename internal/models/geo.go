package models

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityCoordinate is a geocoding result. A nil Coord means the city could not be resolved.
type CityCoordinate struct {
	City   string      `json:"city"`
	Region string      `json:"region,omitempty"`
	Coord  *Coordinate `json:"coord"`
}

// Resolved reports whether a coordinate was found.
func (c CityCoordinate) Resolved() bool {
	return c.Coord != nil
}

// Segment is one leg between two consecutive stops of a trip.
type Segment struct {
	TripID        int          `json:"trip_id"`
	Index         int          `json:"index"`
	From          string       `json:"from"`
	To            string       `json:"to"`
	Points        []Coordinate `json:"points"`
	DistanceKm    Number       `json:"distance_km"`
	DurationHours Number       `json:"duration_hours"`
	// GreatCircleKm is the straight-line length between the endpoints.
	GreatCircleKm float64 `json:"great_circle_km"`
	// Real is true when the geometry came from the directions service.
	Real bool `json:"real"`
}

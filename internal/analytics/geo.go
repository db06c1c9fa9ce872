package analytics

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"fleetops/dashboard/internal/models"
)

const EarthRadiusKm = 6371.0 // Earth's mean radius in kilometers

// GreatCircleKm returns the great-circle distance between two points.
func GreatCircleKm(a, b models.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Center returns the spherical centroid of coords. Antipodal sets that cancel out
// fall back to the plain mean of latitudes and longitudes.
func Center(coords []models.Coordinate) models.Coordinate {
	if len(coords) == 0 {
		return models.Coordinate{}
	}

	var sum r3.Vector
	var lat, lon float64
	for _, c := range coords {
		sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)).Vector)
		lat += c.Lat
		lon += c.Lon
	}
	if sum.Norm() < 1e-9 {
		n := float64(len(coords))
		return models.Coordinate{Lat: lat / n, Lon: lon / n}
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return models.Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

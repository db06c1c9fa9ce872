package models

import (
	"strings"
	"time"
)

// MaxDestinations is the number of destination columns a trip row carries.
const MaxDestinations = 4

// Stop is a city on a trip itinerary, with an optional state code.
type Stop struct {
	City   string `json:"city"`
	Region string `json:"region,omitempty"`
}

// Missing reports whether the stop has no city.
func (s Stop) Missing() bool {
	return strings.TrimSpace(s.City) == ""
}

// Trip is one fleet journey, parsed from a DADOS_VIAGEM row.
type Trip struct {
	ID           int                   `json:"id"`
	Driver       string                `json:"driver"`
	Vehicle      string                `json:"vehicle"`
	Origin       Stop                  `json:"origin"`
	Destinations [MaxDestinations]Stop `json:"destinations"`
	StartAt      *time.Time            `json:"start_at"`
	ReturnAt     *time.Time            `json:"return_at"`
	DistanceKm   Number                `json:"distance_km"`
	DurationDays Number                `json:"duration_days"`
	FuelCost     Number                `json:"fuel_cost"`
	DamagesCost  Number                `json:"damages_cost"`
	LodgingCost  Number                `json:"lodging_cost"`
	FinalCost    Number                `json:"final_cost"`
	FuelLiters   Number                `json:"fuel_liters"`
	KmPerLiter   Number                `json:"km_per_liter"`
}

// Itinerary returns the origin followed by every present destination, in column order.
// A missing origin is skipped.
func (t Trip) Itinerary() []Stop {
	stops := make([]Stop, 0, MaxDestinations+1)
	if !t.Origin.Missing() {
		stops = append(stops, t.Origin)
	}
	for _, d := range t.Destinations {
		if !d.Missing() {
			stops = append(stops, d)
		}
	}
	return stops
}

// StopCount counts the origin plus present destinations.
func (t Trip) StopCount() int {
	n := 1
	for _, d := range t.Destinations {
		if !d.Missing() {
			n++
		}
	}
	return n
}

// FirstDestination is the DESTINO_1 stop, possibly missing.
func (t Trip) FirstDestination() Stop {
	return t.Destinations[0]
}

package dtos

import (
	"time"

	"fleetops/dashboard/internal/models"
)

// KPI is one metric card, already formatted for display.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Help  string `json:"help,omitempty"`
}

// FilterOptions feed the sidebar pickers.
type FilterOptions struct {
	Drivers  []string   `json:"drivers"`
	Vehicles []string   `json:"vehicles"`
	MinDate  *time.Time `json:"min_date"`
	MaxDate  *time.Time `json:"max_date"`
}

// PageView is the composed output of one dashboard page.
// Exactly one of the page payloads is set.
type PageView struct {
	Page      models.PageID    `json:"page"`
	Title     string           `json:"title"`
	View      models.ViewMode  `json:"view"`
	Filter    models.Filter    `json:"filter"`
	Options   FilterOptions    `json:"options"`
	TripCount int              `json:"trip_count"`
	Empty     bool             `json:"empty"`
	Message   string           `json:"message,omitempty"`
	KPIs      []KPI            `json:"kpis"`
	Insights  []models.Insight `json:"insights"`

	Home        *HomeData        `json:"home,omitempty"`
	Overview    *OverviewData    `json:"overview,omitempty"`
	Driver      *DriverData      `json:"driver,omitempty"`
	Vehicle     *VehicleData     `json:"vehicle,omitempty"`
	City        *CityData        `json:"city,omitempty"`
	Analyses    *AnalysesData    `json:"analyses,omitempty"`
	Maintenance *MaintenanceData `json:"maintenance,omitempty"`
	Map         *MapData         `json:"map,omitempty"`
}

type HomeData struct {
	Totals     models.Totals `json:"totals"`
	PeriodFrom string        `json:"period_from"`
	PeriodTo   string        `json:"period_to"`
	Drivers    int           `json:"drivers"`
	Vehicles   int           `json:"vehicles"`
}

type OverviewData struct {
	Costs     models.CostBreakdown  `json:"costs"`
	ByDriver  []models.GroupSummary `json:"by_driver,omitempty"`
	ByVehicle []models.GroupSummary `json:"by_vehicle,omitempty"`
}

// TripPoint is one bar of a per-trip efficiency chart.
type TripPoint struct {
	TripID     int           `json:"trip_id"`
	KmPerLiter models.Number `json:"km_per_liter"`
}

type DriverData struct {
	Driver     string        `json:"driver"`
	Choices    []string      `json:"choices"`
	Efficiency []TripPoint   `json:"efficiency"`
	History    []models.Trip `json:"history,omitempty"`
}

type VehicleData struct {
	Vehicle     string             `json:"vehicle"`
	Choices     []string           `json:"choices"`
	Utilization models.Utilization `json:"utilization"`
	History     []models.Trip      `json:"history,omitempty"`
}

type CityData struct {
	Top []models.CitySummary `json:"top"`
	All []models.CitySummary `json:"all,omitempty"`
}

type AnalysesData struct {
	ByDriver  []models.GroupSummary   `json:"by_driver"`
	ByVehicle []models.GroupSummary   `json:"by_vehicle"`
	Monthly   []models.MonthlySummary `json:"monthly,omitempty"`
}

type MaintenanceData struct {
	Filter  models.MaintenanceFilter   `json:"filter"`
	Plates  []string                   `json:"plates"`
	Count   int                        `json:"count"`
	ByPlate []models.PlateSummary      `json:"by_plate"`
	History []models.MaintenanceRecord `json:"history,omitempty"`
}

// MapCity is a marker sized by visit count.
type MapCity struct {
	City   string            `json:"city"`
	Region string            `json:"region,omitempty"`
	Coord  models.Coordinate `json:"coord"`
	Visits int               `json:"visits"`
	Radius float64           `json:"radius"`
}

// MapRoute is one trip drawn as consecutive segments.
type MapRoute struct {
	TripID       int              `json:"trip_id"`
	Driver       string           `json:"driver"`
	Vehicle      string           `json:"vehicle"`
	Color        string           `json:"color"`
	Stops        []string         `json:"stops"`
	Segments     []models.Segment `json:"segments"`
	RegisteredKm models.Number    `json:"registered_km"`
	RealKm       models.Number    `json:"real_km"`
	RealHours    models.Number    `json:"real_hours"`
	DiffKm       models.Number    `json:"diff_km"`
	// DiffClass is green, orange or red depending on |DiffKm|.
	DiffClass  string        `json:"diff_class,omitempty"`
	FinalCost  models.Number `json:"final_cost"`
	KmPerLiter models.Number `json:"km_per_liter"`
}

type LegendEntry struct {
	Driver string `json:"driver"`
	Color  string `json:"color"`
}

type CityVisit struct {
	Rank   int    `json:"rank"`
	City   string `json:"city"`
	Visits int    `json:"visits"`
}

type TripStops struct {
	TripID     int           `json:"trip_id"`
	Driver     string        `json:"driver"`
	Stops      int           `json:"stops"`
	DistanceKm models.Number `json:"distance_km"`
}

type MapData struct {
	Center        models.Coordinate `json:"center"`
	RealRouting   bool              `json:"real_routing"`
	Cities        []MapCity         `json:"cities"`
	Routes        []MapRoute        `json:"routes"`
	Legend        []LegendEntry     `json:"legend"`
	TotalSegments int               `json:"total_segments"`
	StopsPerTrip  []TripStops       `json:"stops_per_trip"`
	Ranking       []CityVisit       `json:"ranking,omitempty"`
	TotalVisits   int               `json:"total_visits,omitempty"`
	MeanVisits    float64           `json:"mean_visits,omitempty"`
}

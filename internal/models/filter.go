package models

import "time"

// All is the picker value that disables driver, vehicle or plate filtering.
const All = "all"

// Filter is the sidebar selection applied to the trip table.
type Filter struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Driver  string    `json:"driver"`
	Vehicle string    `json:"vehicle"`
}

// MaintenanceFilter is the maintenance page's own selection.
type MaintenanceFilter struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Plate string    `json:"plate"`
}

// ViewMode controls whether detailed tables are produced.
type ViewMode string

const (
	ViewEssential ViewMode = "essential"
	ViewComplete  ViewMode = "complete"
)

// ParseViewMode defaults to essential for anything unrecognised.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewComplete {
		return ViewComplete
	}
	return ViewEssential
}

// PageID names a dashboard page.
type PageID string

const (
	PageHome        PageID = "home"
	PageOverview    PageID = "overview"
	PageDriver      PageID = "driver"
	PageVehicle     PageID = "vehicle"
	PageCity        PageID = "city"
	PageAnalyses    PageID = "analyses"
	PageMaintenance PageID = "maintenance"
	PageMap         PageID = "map"
)

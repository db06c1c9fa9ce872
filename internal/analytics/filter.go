// Package analytics holds the pure computations behind every dashboard page:
// trip filtering, group-by aggregation and insight extraction.
package analytics

import (
	"sort"
	"time"

	"fleetops/dashboard/internal/models"
)

// DefaultFilter spans the whole table: earliest start to latest return, every driver and vehicle.
// Bounds stay zero when no trip carries a parsable date.
func DefaultFilter(trips []models.Trip) models.Filter {
	f := models.Filter{Driver: models.All, Vehicle: models.All}
	if from := MinStart(trips); from != nil {
		f.From = startOfDay(*from)
	}
	if to := MaxReturn(trips); to != nil {
		f.To = startOfDay(*to)
	}
	return f
}

// ApplyFilter keeps trips that started on or after From and returned on or before To
// (both compared by calendar day), matching driver and vehicle unless they are All.
// A zero bound is not applied. Trips missing the bounded date never pass that bound.
// The result preserves input order.
func ApplyFilter(trips []models.Trip, f models.Filter) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t models.Trip, f models.Filter) bool {
	if !f.From.IsZero() {
		if t.StartAt == nil || t.StartAt.Before(startOfDay(f.From)) {
			return false
		}
	}
	if !f.To.IsZero() {
		if t.ReturnAt == nil || !t.ReturnAt.Before(nextDay(f.To)) {
			return false
		}
	}
	if !isAll(f.Driver) && t.Driver != f.Driver {
		return false
	}
	if !isAll(f.Vehicle) && t.Vehicle != f.Vehicle {
		return false
	}
	return true
}

// FilterMaintenance applies the maintenance page's date range and plate selection.
func FilterMaintenance(records []models.MaintenanceRecord, f models.MaintenanceFilter) []models.MaintenanceRecord {
	out := make([]models.MaintenanceRecord, 0, len(records))
	for _, r := range records {
		if !f.From.IsZero() && (r.ServiceDate == nil || r.ServiceDate.Before(startOfDay(f.From))) {
			continue
		}
		if !f.To.IsZero() && (r.ServiceDate == nil || !r.ServiceDate.Before(nextDay(f.To))) {
			continue
		}
		if !isAll(f.Plate) && r.Plate != f.Plate {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Drivers lists distinct non-empty driver names, sorted.
func Drivers(trips []models.Trip) []string {
	return distinct(trips, func(t models.Trip) string { return t.Driver })
}

// Vehicles lists distinct non-empty vehicle models, sorted.
func Vehicles(trips []models.Trip) []string {
	return distinct(trips, func(t models.Trip) string { return t.Vehicle })
}

// Plates lists distinct non-empty maintenance plates, sorted.
func Plates(records []models.MaintenanceRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		if r.Plate != "" && !seen[r.Plate] {
			seen[r.Plate] = true
			out = append(out, r.Plate)
		}
	}
	sort.Strings(out)
	return out
}

func MinStart(trips []models.Trip) *time.Time {
	var min *time.Time
	for i := range trips {
		if s := trips[i].StartAt; s != nil && (min == nil || s.Before(*min)) {
			min = s
		}
	}
	return min
}

func MaxReturn(trips []models.Trip) *time.Time {
	var max *time.Time
	for i := range trips {
		if r := trips[i].ReturnAt; r != nil && (max == nil || r.After(*max)) {
			max = r
		}
	}
	return max
}

func distinct(trips []models.Trip, key func(models.Trip) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range trips {
		k := key(t)
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func isAll(v string) bool {
	return v == "" || v == models.All
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

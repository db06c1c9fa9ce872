package analytics

import (
	"sort"
	"time"

	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
)

// KeyFunc selects the grouping key of a trip. Trips with an empty key are dropped.
type KeyFunc func(models.Trip) string

// GroupBy sums trip measures per key. Missing values are skipped in sums and means.
// Output is sorted by key.
func GroupBy(trips []models.Trip, key KeyFunc) []models.GroupSummary {
	type acc struct {
		sum     models.GroupSummary
		kmlSum  float64
		kmlSeen int
	}
	index := map[string]*acc{}
	var order []string

	for _, t := range trips {
		k := key(t)
		if k == "" {
			continue
		}
		a, ok := index[k]
		if !ok {
			a = &acc{sum: models.GroupSummary{Key: k}}
			index[k] = a
			order = append(order, k)
		}
		a.sum.Count++
		a.sum.DistanceKm += t.DistanceKm.Or(0)
		a.sum.FinalCost += t.FinalCost.Or(0)
		a.sum.FuelCost += t.FuelCost.Or(0)
		a.sum.FuelLiters += t.FuelLiters.Or(0)
		a.sum.DurationDays += t.DurationDays.Or(0)
		if t.KmPerLiter.Valid {
			a.kmlSum += t.KmPerLiter.Value
			a.kmlSeen++
		}
	}

	sort.Strings(order)
	out := make([]models.GroupSummary, 0, len(order))
	for _, k := range order {
		a := index[k]
		if a.kmlSeen > 0 {
			a.sum.MeanKmPerLiter = models.Num(a.kmlSum / float64(a.kmlSeen))
		}
		out = append(out, a.sum)
	}
	return out
}

func ByDriver(trips []models.Trip) []models.GroupSummary {
	return GroupBy(trips, func(t models.Trip) string { return t.Driver })
}

func ByVehicle(trips []models.Trip) []models.GroupSummary {
	return GroupBy(trips, func(t models.Trip) string { return t.Vehicle })
}

// ByCity credits each trip to its origin and to every present destination: one visit
// plus the trip's km, fuel cost and days per occurrence. Sorted by km descending,
// cities with equal km keep name order.
func ByCity(trips []models.Trip) []models.CitySummary {
	index := map[string]*models.CitySummary{}
	for _, t := range trips {
		for _, s := range t.Itinerary() {
			c, ok := index[s.City]
			if !ok {
				c = &models.CitySummary{City: s.City}
				index[s.City] = c
			}
			c.Visits++
			c.DistanceKm += t.DistanceKm.Or(0)
			c.FuelCost += t.FuelCost.Or(0)
			c.DurationDays += t.DurationDays.Or(0)
		}
	}

	out := make([]models.CitySummary, 0, len(index))
	for _, c := range index {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm > out[j].DistanceKm })
	return out
}

// CityVisits counts origin and destination occurrences per city.
// Cities are listed by visits descending, then by name.
func CityVisits(trips []models.Trip) []models.CitySummary {
	all := ByCity(trips)
	sort.Slice(all, func(i, j int) bool { return all[i].City < all[j].City })
	sort.SliceStable(all, func(i, j int) bool { return all[i].Visits > all[j].Visits })
	return all
}

// TopN returns at most the first n elements.
func TopN[T any](items []T, n int) []T {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

func CostBreakdown(trips []models.Trip) models.CostBreakdown {
	var c models.CostBreakdown
	for _, t := range trips {
		c.Fuel += t.FuelCost.Or(0)
		c.Damages += t.DamagesCost.Or(0)
		c.Lodging += t.LodgingCost.Or(0)
	}
	return c
}

// Monthly groups km and spend by the YYYY-MM of each trip's start, ascending.
// Trips without a start date are left out.
func Monthly(trips []models.Trip) []models.MonthlySummary {
	index := map[string]*models.MonthlySummary{}
	for _, t := range trips {
		if t.StartAt == nil {
			continue
		}
		m := t.StartAt.Format("2006-01")
		s, ok := index[m]
		if !ok {
			s = &models.MonthlySummary{Month: m}
			index[m] = s
		}
		s.DistanceKm += t.DistanceKm.Or(0)
		s.FinalCost += t.FinalCost.Or(0)
	}

	out := make([]models.MonthlySummary, 0, len(index))
	for _, s := range index {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Utilization relates the days spent travelling to the whole days between the first
// departure and the last return. A non-positive span yields 0%.
func Utilization(trips []models.Trip) models.Utilization {
	u := models.Utilization{Goal: constants.UtilizationGoal}
	for _, t := range trips {
		u.ProductiveDays += t.DurationDays.Or(0)
	}

	from, to := MinStart(trips), MaxReturn(trips)
	if from == nil || to == nil {
		return u
	}
	u.AvailableDays = int(to.Sub(*from) / (24 * time.Hour))
	if u.AvailableDays > 0 {
		u.Percent = u.ProductiveDays / float64(u.AvailableDays) * 100
	}
	return u
}

// ByPlate sums maintenance cost per plate, most expensive first; equal costs keep plate order.
func ByPlate(records []models.MaintenanceRecord) []models.PlateSummary {
	index := map[string]*models.PlateSummary{}
	for _, r := range records {
		if r.Plate == "" {
			continue
		}
		p, ok := index[r.Plate]
		if !ok {
			p = &models.PlateSummary{Plate: r.Plate}
			index[r.Plate] = p
		}
		p.Count++
		p.Cost += r.Cost.Or(0)
	}

	out := make([]models.PlateSummary, 0, len(index))
	for _, p := range index {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

func Totals(trips []models.Trip) models.Totals {
	t := models.Totals{Trips: len(trips)}
	var kml []float64
	for _, trip := range trips {
		t.DistanceKm += trip.DistanceKm.Or(0)
		t.FinalCost += trip.FinalCost.Or(0)
		if trip.KmPerLiter.Valid {
			kml = append(kml, trip.KmPerLiter.Value)
		}
	}
	if len(kml) > 0 {
		t.MeanKmPerLiter = models.Num(Mean(kml))
	}
	return t
}

// SortByStartDesc orders a copy of trips newest first; undated trips go last.
func SortByStartDesc(trips []models.Trip) []models.Trip {
	out := append([]models.Trip(nil), trips...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StartAt, out[j].StartAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return out
}

// SortByServiceDateDesc orders a copy of records newest first; undated records go last.
func SortByServiceDateDesc(records []models.MaintenanceRecord) []models.MaintenanceRecord {
	out := append([]models.MaintenanceRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ServiceDate, out[j].ServiceDate
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return out
}

// Mean calculates the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// valid collects the present values of a trip measure.
func valid(trips []models.Trip, field func(models.Trip) models.Number) []float64 {
	var out []float64
	for _, t := range trips {
		if n := field(t); n.Valid {
			out = append(out, n.Value)
		}
	}
	return out
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

package analytics

import (
	"fmt"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"
)

// insightFunc yields one card, or false when the data cannot support it.
type insightFunc func() (models.Insight, bool)

// collect evaluates every generator on its own; a generator that fails is left out.
func collect(gens ...insightFunc) []models.Insight {
	out := []models.Insight{}
	for i, gen := range gens {
		if in, ok := safely(i, gen); ok {
			out = append(out, in)
		}
	}
	return out
}

func safely(i int, gen insightFunc) (in models.Insight, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Insight generator failed", "index", i, "panic", fmt.Sprint(r))
			in, ok = models.Insight{}, false
		}
	}()
	return gen()
}

// argBest returns the index of the first trip whose measure beats every earlier one.
// Missing measures are skipped. better(a, b) reports whether a should replace b.
func argBest(trips []models.Trip, measure func(models.Trip) models.Number, better func(a, b float64) bool) (int, bool) {
	best := -1
	var bestVal float64
	for i, t := range trips {
		n := measure(t)
		if !n.Valid {
			continue
		}
		if best < 0 || better(n.Value, bestVal) {
			best, bestVal = i, n.Value
		}
	}
	return best, best >= 0
}

func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool    { return a < b }

// costPerKm is undefined for trips without a positive distance.
func costPerKm(t models.Trip) models.Number {
	if !t.DistanceKm.Valid || t.DistanceKm.Value <= 0 || !t.FinalCost.Valid {
		return models.Number{}
	}
	return models.Num(t.FinalCost.Value / t.DistanceKm.Value)
}

func orDash(n models.Number, format func(float64) string) string {
	if !n.Valid {
		return "-"
	}
	return format(n.Value)
}

func stopName(s models.Stop) string {
	if s.Missing() {
		return "?"
	}
	return s.City
}

// GeneralInsights highlights the best efficiency, the cheapest km, the longest distance
// and the longest duration of a trip set.
func GeneralInsights(trips []models.Trip) []models.Insight {
	if len(trips) == 0 {
		return []models.Insight{}
	}
	return collect(
		func() (models.Insight, bool) {
			i, ok := argBest(trips, func(t models.Trip) models.Number { return t.KmPerLiter }, greater)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "⛽",
				Title: "Melhor Eficiência",
				Desc:  fmt.Sprintf("Viagem #%d com %s km/L", t.ID, common.FormatFloat(t.KmPerLiter.Value, 2)),
				Extra: "Motorista: " + t.Driver,
			}, true
		},
		func() (models.Insight, bool) {
			i, ok := argBest(trips, costPerKm, less)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "💰",
				Title: "Menor Custo/KM",
				Desc:  fmt.Sprintf("%s/km na viagem #%d", common.FormatMoney(costPerKm(t).Value), t.ID),
				Extra: "Motorista: " + t.Driver,
			}, true
		},
		func() (models.Insight, bool) {
			i, ok := argBest(trips, func(t models.Trip) models.Number { return t.DistanceKm }, greater)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "🚀",
				Title: "Maior Viagem",
				Desc:  common.FormatNumber(t.DistanceKm.Value) + " km percorridos",
				Extra: stopName(t.Origin) + " → " + stopName(t.FirstDestination()),
			}, true
		},
		func() (models.Insight, bool) {
			i, ok := argBest(trips, func(t models.Trip) models.Number { return t.DurationDays }, greater)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "📆",
				Title: "Viagem Mais Longa",
				Desc:  common.FormatFloat(t.DurationDays.Value, 0) + " dias",
				Extra: "Motorista: " + t.Driver,
			}, true
		},
	)
}

// DriverInsights summarises one driver's trips.
func DriverInsights(trips []models.Trip) []models.Insight {
	if len(trips) == 0 {
		return []models.Insight{}
	}
	return collect(
		func() (models.Insight, bool) {
			kml := valid(trips, func(t models.Trip) models.Number { return t.KmPerLiter })
			if len(kml) == 0 {
				return models.Insight{}, false
			}
			return models.Insight{
				Icon:  "⛽",
				Title: "Eficiência Média",
				Desc:  common.FormatFloat(Mean(kml), 2) + " km/L",
				Extra: fmt.Sprintf("Baseado em %d viagens", len(trips)),
			}, true
		},
		func() (models.Insight, bool) {
			days := valid(trips, func(t models.Trip) models.Number { return t.DurationDays })
			if len(days) == 0 {
				return models.Insight{}, false
			}
			return models.Insight{
				Icon:  "📆",
				Title: "Duração Média",
				Desc:  common.FormatFloat(Mean(days), 1) + " dias/viagem",
				Extra: "Total: " + common.FormatFloat(sum(days), 0) + " dias",
			}, true
		},
		func() (models.Insight, bool) {
			i, ok := argBest(trips, func(t models.Trip) models.Number { return t.FinalCost }, greater)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "💸",
				Title: "Viagem Mais Cara",
				Desc:  common.FormatMoney(t.FinalCost.Value),
				Extra: fmt.Sprintf("Viagem #%d • %s km", t.ID, orDash(t.DistanceKm, common.FormatNumber)),
			}, true
		},
		func() (models.Insight, bool) {
			costs := valid(trips, func(t models.Trip) models.Number { return t.FinalCost })
			if len(costs) == 0 {
				return models.Insight{}, false
			}
			return models.Insight{
				Icon:  "💰",
				Title: "Custo Médio/Viagem",
				Desc:  common.FormatMoney(Mean(costs)),
				Extra: "Total gasto: " + common.FormatMoney(sum(costs)),
			}, true
		},
	)
}

// VehicleInsights summarises one vehicle's trips.
func VehicleInsights(trips []models.Trip) []models.Insight {
	if len(trips) == 0 {
		return []models.Insight{}
	}
	return collect(
		func() (models.Insight, bool) {
			kml := valid(trips, func(t models.Trip) models.Number { return t.KmPerLiter })
			if len(kml) == 0 {
				return models.Insight{}, false
			}
			best := kml[0]
			for _, v := range kml[1:] {
				if v > best {
					best = v
				}
			}
			return models.Insight{
				Icon:  "⚡",
				Title: "Eficiência Média",
				Desc:  common.FormatFloat(Mean(kml), 2) + " km/L",
				Extra: "Melhor: " + common.FormatFloat(best, 2) + " km/L",
			}, true
		},
		func() (models.Insight, bool) {
			liters := valid(trips, func(t models.Trip) models.Number { return t.FuelLiters })
			if len(liters) == 0 {
				return models.Insight{}, false
			}
			return models.Insight{
				Icon:  "🛢️",
				Title: "Consumo Total",
				Desc:  common.FormatNumber(sum(liters)) + " litros",
				Extra: fmt.Sprintf("Em %d viagens", len(trips)),
			}, true
		},
		func() (models.Insight, bool) {
			i, ok := argBest(trips, func(t models.Trip) models.Number { return t.DistanceKm }, greater)
			if !ok {
				return models.Insight{}, false
			}
			t := trips[i]
			return models.Insight{
				Icon:  "📏",
				Title: "Maior Percurso",
				Desc:  common.FormatNumber(t.DistanceKm.Value) + " km",
				Extra: fmt.Sprintf("Viagem #%d com %s", t.ID, t.Driver),
			}, true
		},
		func() (models.Insight, bool) {
			costs := valid(trips, func(t models.Trip) models.Number { return t.FinalCost })
			if len(costs) == 0 {
				return models.Insight{}, false
			}
			// ratio over trips that have both a positive distance and a cost
			var cost, km float64
			for _, t := range trips {
				if costPerKm(t).Valid {
					cost += t.FinalCost.Value
					km += t.DistanceKm.Value
				}
			}
			perKm := "-"
			if km > 0 {
				perKm = common.FormatMoney(cost / km)
			}
			return models.Insight{
				Icon:  "💰",
				Title: "Custo Total",
				Desc:  common.FormatMoney(sum(costs)),
				Extra: "Custo/KM: " + perKm,
			}, true
		},
	)
}

// CityInsights picks the leading city by km, visits and fuel spend. Ties go to the
// city listed first.
func CityInsights(cities []models.CitySummary) []models.Insight {
	if len(cities) == 0 {
		return []models.Insight{}
	}
	first := func(better func(a, b models.CitySummary) bool) models.CitySummary {
		best := cities[0]
		for _, c := range cities[1:] {
			if better(c, best) {
				best = c
			}
		}
		return best
	}
	return collect(
		func() (models.Insight, bool) {
			c := first(func(a, b models.CitySummary) bool { return a.DistanceKm > b.DistanceKm })
			return models.Insight{
				Icon:  "📍",
				Title: "Maior KM Percorrido",
				Desc:  c.City,
				Extra: common.FormatNumber(c.DistanceKm) + " km",
			}, true
		},
		func() (models.Insight, bool) {
			c := first(func(a, b models.CitySummary) bool { return a.Visits > b.Visits })
			return models.Insight{
				Icon:  "🧭",
				Title: "Mais Visitada",
				Desc:  c.City,
				Extra: fmt.Sprintf("%d visitas", c.Visits),
			}, true
		},
		func() (models.Insight, bool) {
			c := first(func(a, b models.CitySummary) bool { return a.FuelCost > b.FuelCost })
			return models.Insight{
				Icon:  "💰",
				Title: "Maior Gasto",
				Desc:  c.City,
				Extra: common.FormatMoney(c.FuelCost),
			}, true
		},
	)
}

// MaintenanceInsights highlights the largest single cost, the plate with the most
// services, the mean cost and the number of vehicles served.
// plates must come from ByPlate over the same records.
func MaintenanceInsights(records []models.MaintenanceRecord, plates []models.PlateSummary) []models.Insight {
	if len(records) == 0 {
		return []models.Insight{}
	}
	return collect(
		func() (models.Insight, bool) {
			best := -1
			for i, r := range records {
				if r.Cost.Valid && (best < 0 || r.Cost.Value > records[best].Cost.Value) {
					best = i
				}
			}
			if best < 0 {
				return models.Insight{}, false
			}
			r := records[best]
			return models.Insight{
				Icon:  "💸",
				Title: "Maior Gasto Individual",
				Desc:  common.FormatMoney(r.Cost.Value),
				Extra: r.Plate + " • " + common.Truncate(r.Items, 50) + "...",
			}, true
		},
		func() (models.Insight, bool) {
			if len(plates) == 0 {
				return models.Insight{}, false
			}
			// plates arrive sorted by cost, so cost breaks count ties
			top := plates[0]
			for _, p := range plates[1:] {
				if p.Count > top.Count {
					top = p
				}
			}
			return models.Insight{
				Icon:  "🔧",
				Title: "Veículo com Mais Manutenções",
				Desc:  top.Plate,
				Extra: fmt.Sprintf("%d manutenções • %s", top.Count, common.FormatMoney(top.Cost)),
			}, true
		},
		func() (models.Insight, bool) {
			var costs []float64
			for _, r := range records {
				if r.Cost.Valid {
					costs = append(costs, r.Cost.Value)
				}
			}
			if len(costs) == 0 {
				return models.Insight{}, false
			}
			return models.Insight{
				Icon:  "📊",
				Title: "Custo Médio",
				Desc:  common.FormatMoney(Mean(costs)),
				Extra: "Por manutenção no período",
			}, true
		},
		func() (models.Insight, bool) {
			return models.Insight{
				Icon:  "🚗",
				Title: "Veículos Atendidos",
				Desc:  fmt.Sprintf("%d veículos", len(plates)),
				Extra: fmt.Sprintf("%d manutenções realizadas", len(records)),
			}, true
		},
	)
}

// MapInsights summarises the geographic view: the most visited city, the trip with the
// most stops, the mean stop count and the reach of the fleet.
// ranking is ordered by visits descending.
func MapInsights(ranking []dtos.CityVisit, stops []dtos.TripStops, totalSegments, totalCities int) []models.Insight {
	if len(ranking) == 0 && len(stops) == 0 {
		return []models.Insight{}
	}
	return collect(
		func() (models.Insight, bool) {
			if len(ranking) == 0 {
				return models.Insight{}, false
			}
			top := ranking[0]
			return models.Insight{
				Icon:  "🏙️",
				Title: "Cidade Mais Visitada",
				Desc:  top.City,
				Extra: fmt.Sprintf("%d visitas (origem + destinos)", top.Visits),
			}, true
		},
		func() (models.Insight, bool) {
			if len(stops) == 0 {
				return models.Insight{}, false
			}
			top := stops[0]
			for _, s := range stops[1:] {
				if s.Stops > top.Stops {
					top = s
				}
			}
			return models.Insight{
				Icon:  "🛣️",
				Title: "Viagem com Mais Paradas",
				Desc:  fmt.Sprintf("Viagem #%d", top.TripID),
				Extra: fmt.Sprintf("%d paradas • %s km", top.Stops, orDash(top.DistanceKm, common.FormatNumber)),
			}, true
		},
		func() (models.Insight, bool) {
			if len(stops) == 0 {
				return models.Insight{}, false
			}
			counts := make([]float64, len(stops))
			for i, s := range stops {
				counts[i] = float64(s.Stops)
			}
			return models.Insight{
				Icon:  "📊",
				Title: "Média de Paradas",
				Desc:  common.FormatFloat(Mean(counts), 1) + " paradas/viagem",
				Extra: fmt.Sprintf("Total: %d trechos mapeados", totalSegments),
			}, true
		},
		func() (models.Insight, bool) {
			return models.Insight{
				Icon:  "🌍",
				Title: "Alcance Geográfico",
				Desc:  fmt.Sprintf("%d cidades diferentes", totalCities),
				Extra: fmt.Sprintf("%d com visitas registradas", len(ranking)),
			}, true
		},
	)
}

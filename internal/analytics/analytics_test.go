package analytics

import (
	"testing"
	"time"

	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func stop(city string) models.Stop { return models.Stop{City: city} }

func fixture() []models.Trip {
	return []models.Trip{
		{
			ID: 1, Driver: "A", Vehicle: "V1",
			Origin: stop("Curitiba"), Destinations: [4]models.Stop{stop("Joinville")},
			StartAt: day(2024, 1, 1), ReturnAt: day(2024, 1, 4),
			DistanceKm: models.Num(100), FinalCost: models.Num(50), KmPerLiter: models.Num(2.5),
			FuelCost: models.Num(30), DamagesCost: models.Num(5), LodgingCost: models.Num(15),
			DurationDays: models.Num(3), FuelLiters: models.Num(40),
		},
		{
			ID: 2, Driver: "A", Vehicle: "V2",
			Origin: stop("Curitiba"), Destinations: [4]models.Stop{stop("Londrina")},
			StartAt: day(2024, 2, 1), ReturnAt: day(2024, 2, 6),
			DistanceKm: models.Num(200), FinalCost: models.Num(100), KmPerLiter: models.Num(3.5),
			FuelCost: models.Num(70), LodgingCost: models.Num(30),
			DurationDays: models.Num(5), FuelLiters: models.Num(57),
		},
		{
			ID: 3, Driver: "B", Vehicle: "V1",
			Origin: stop("Joinville"), Destinations: [4]models.Stop{stop("Curitiba")},
			StartAt: day(2024, 2, 10), ReturnAt: day(2024, 2, 12),
			DistanceKm: models.Num(50), FinalCost: models.Num(80), KmPerLiter: models.Num(2.0),
			FuelCost: models.Num(40), DamagesCost: models.Num(20), LodgingCost: models.Num(20),
			DurationDays: models.Num(2), FuelLiters: models.Num(25),
		},
	}
}

func ids(trips []models.Trip) []int {
	out := make([]int, len(trips))
	for i, t := range trips {
		out[i] = t.ID
	}
	return out
}

func TestDefaultFilter_SpansTable(t *testing.T) {
	f := DefaultFilter(fixture())

	assert.Equal(t, *day(2024, 1, 1), f.From)
	assert.Equal(t, *day(2024, 2, 12), f.To)
	assert.Equal(t, models.All, f.Driver)
	assert.Equal(t, models.All, f.Vehicle)
	assert.Len(t, ApplyFilter(fixture(), f), 3)
}

func TestApplyFilter(t *testing.T) {
	trips := fixture()
	base := DefaultFilter(trips)

	byDriver := base
	byDriver.Driver = "A"
	assert.Equal(t, []int{1, 2}, ids(ApplyFilter(trips, byDriver)))

	byVehicle := base
	byVehicle.Vehicle = "V1"
	assert.Equal(t, []int{1, 3}, ids(ApplyFilter(trips, byVehicle)))

	january := base
	january.To = *day(2024, 1, 31)
	assert.Equal(t, []int{1}, ids(ApplyFilter(trips, january)))

	nobody := base
	nobody.Driver = "Z"
	assert.Empty(t, ApplyFilter(trips, nobody))
}

func TestApplyFilter_ToIncludesWholeDay(t *testing.T) {
	trips := fixture()
	late := time.Date(2024, 1, 4, 18, 30, 0, 0, time.UTC)
	trips[0].ReturnAt = &late

	f := models.Filter{From: *day(2024, 1, 1), To: *day(2024, 1, 4), Driver: models.All, Vehicle: models.All}
	assert.Equal(t, []int{1}, ids(ApplyFilter(trips, f)))
}

func TestApplyFilter_UndatedTripsFailDateBounds(t *testing.T) {
	trips := fixture()
	trips[1].ReturnAt = nil

	got := ApplyFilter(trips, DefaultFilter(trips))
	assert.Equal(t, []int{1, 3}, ids(got))

	// no bounds, no date check
	assert.Len(t, ApplyFilter(trips, models.Filter{}), 3)
}

func TestApplyFilter_Idempotent(t *testing.T) {
	trips := fixture()
	f := DefaultFilter(trips)
	f.Driver = "A"

	once := ApplyFilter(trips, f)
	twice := ApplyFilter(once, f)
	assert.Equal(t, once, twice)
}

func TestApplyFilter_EmptyInput(t *testing.T) {
	got := ApplyFilter(nil, models.Filter{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPickers(t *testing.T) {
	trips := fixture()
	trips = append(trips, models.Trip{ID: 9})

	assert.Equal(t, []string{"A", "B"}, Drivers(trips))
	assert.Equal(t, []string{"V1", "V2"}, Vehicles(trips))
}

func TestGroupBy_DriverSums(t *testing.T) {
	groups := ByDriver(fixture())
	require.Len(t, groups, 2)

	a, b := groups[0], groups[1]
	assert.Equal(t, "A", a.Key)
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 300.0, a.DistanceKm)
	assert.Equal(t, 150.0, a.FinalCost)
	assert.InDelta(t, 3.0, a.MeanKmPerLiter.Value, 1e-9)

	assert.Equal(t, "B", b.Key)
	assert.Equal(t, 1, b.Count)
	assert.Equal(t, 50.0, b.DistanceKm)
	assert.Equal(t, 80.0, b.FinalCost)
}

func TestGroupBy_MissingValuesSkipped(t *testing.T) {
	trips := fixture()
	trips[0].KmPerLiter = models.Number{}
	trips[0].DistanceKm = models.Number{}

	a := ByDriver(trips)[0]
	assert.Equal(t, 200.0, a.DistanceKm)
	assert.Equal(t, 3.5, a.MeanKmPerLiter.Value)

	trips[1].KmPerLiter = models.Number{}
	assert.False(t, ByDriver(trips)[0].MeanKmPerLiter.Valid)
}

func TestByCity_CountsEveryOccurrence(t *testing.T) {
	trips := []models.Trip{
		{ID: 1, Origin: stop("A"), Destinations: [4]models.Stop{stop("B"), stop("C"), stop("B")}, DistanceKm: models.Num(10)},
	}

	cities := ByCity(trips)
	visits := map[string]int{}
	for _, c := range cities {
		visits[c.City] = c.Visits
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 1}, visits)

	for _, c := range cities {
		if c.City == "B" {
			assert.Equal(t, 20.0, c.DistanceKm)
		}
	}
	// B leads on km; A and C tie and keep name order
	assert.Equal(t, []string{"B", "A", "C"}, []string{cities[0].City, cities[1].City, cities[2].City})
}

func TestCityVisits_OrderedByVisits(t *testing.T) {
	cities := CityVisits(fixture())
	require.Len(t, cities, 3)
	assert.Equal(t, "Curitiba", cities[0].City)
	assert.Equal(t, 3, cities[0].Visits)
}

func TestTopN(t *testing.T) {
	assert.Equal(t, []int{1, 2}, TopN([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, TopN([]int{1}, 10))
}

func TestCostBreakdownAndTotals(t *testing.T) {
	c := CostBreakdown(fixture())
	assert.Equal(t, models.CostBreakdown{Fuel: 140, Damages: 25, Lodging: 65}, c)

	tot := Totals(fixture())
	assert.Equal(t, 3, tot.Trips)
	assert.Equal(t, 350.0, tot.DistanceKm)
	assert.Equal(t, 230.0, tot.FinalCost)
	assert.InDelta(t, 8.0/3, tot.MeanKmPerLiter.Value, 1e-9)
}

func TestMonthly(t *testing.T) {
	got := Monthly(fixture())
	assert.Equal(t, []models.MonthlySummary{
		{Month: "2024-01", DistanceKm: 100, FinalCost: 50},
		{Month: "2024-02", DistanceKm: 250, FinalCost: 180},
	}, got)
}

func TestUtilization(t *testing.T) {
	u := Utilization(fixture())
	// 2024-01-01 .. 2024-02-12 is 42 days, 10 of them on the road
	assert.Equal(t, 42, u.AvailableDays)
	assert.Equal(t, 10.0, u.ProductiveDays)
	assert.InDelta(t, 1000.0/42, u.Percent, 1e-9)
	assert.Equal(t, 75.0, u.Goal)

	sameDay := fixture()[:1]
	sameDay[0].ReturnAt = sameDay[0].StartAt
	assert.Equal(t, 0.0, Utilization(sameDay).Percent)
}

func TestByPlate(t *testing.T) {
	records := []models.MaintenanceRecord{
		{Plate: "AAA", Cost: models.Num(850)},
		{Plate: "BBB", Cost: models.Num(2400)},
		{Plate: "AAA", Cost: models.Num(600)},
	}
	assert.Equal(t, []models.PlateSummary{
		{Plate: "BBB", Count: 1, Cost: 2400},
		{Plate: "AAA", Count: 2, Cost: 1450},
	}, ByPlate(records))
}

func TestFilterMaintenance(t *testing.T) {
	records := []models.MaintenanceRecord{
		{Plate: "AAA", ServiceDate: day(2024, 1, 10)},
		{Plate: "BBB", ServiceDate: day(2024, 2, 3)},
		{Plate: "AAA", ServiceDate: nil},
	}
	f := models.MaintenanceFilter{From: *day(2024, 1, 1), To: *day(2024, 1, 31), Plate: models.All}
	assert.Len(t, FilterMaintenance(records, f), 1)

	f.To = *day(2024, 12, 31)
	f.Plate = "BBB"
	got := FilterMaintenance(records, f)
	require.Len(t, got, 1)
	assert.Equal(t, "BBB", got[0].Plate)

	assert.Equal(t, []string{"AAA", "BBB"}, Plates(records))
}

func TestSortByStartDesc(t *testing.T) {
	trips := fixture()
	trips[1].StartAt = nil
	assert.Equal(t, []int{3, 1, 2}, ids(SortByStartDesc(trips)))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestGeneralInsights(t *testing.T) {
	got := GeneralInsights(fixture())
	require.Len(t, got, 4)

	assert.Equal(t, "Melhor Eficiência", got[0].Title)
	assert.Equal(t, "Viagem #2 com 3.50 km/L", got[0].Desc)

	// trips 1 and 2 tie at 0.50/km; the first one wins
	assert.Equal(t, "Menor Custo/KM", got[1].Title)
	assert.Equal(t, "R$ 0,50/km na viagem #1", got[1].Desc)
	assert.Equal(t, "Motorista: A", got[1].Extra)

	assert.Equal(t, "200 km percorridos", got[2].Desc)
	assert.Equal(t, "Curitiba → Londrina", got[2].Extra)
	assert.Equal(t, "5 dias", got[3].Desc)
}

func TestGeneralInsights_SkipsZeroDistanceForCostPerKm(t *testing.T) {
	trips := fixture()
	trips[0].DistanceKm = models.Num(0)
	trips[0].FinalCost = models.Num(1)

	got := GeneralInsights(trips)
	require.Len(t, got, 4)
	assert.Contains(t, got[1].Desc, "#2")
}

func TestGeneralInsights_OmitsUnsupportedCards(t *testing.T) {
	trips := []models.Trip{{ID: 1, Driver: "A", DistanceKm: models.Num(10)}}

	got := GeneralInsights(trips)
	require.Len(t, got, 1)
	assert.Equal(t, "Maior Viagem", got[0].Title)
	assert.Equal(t, "? → ?", got[0].Extra)
}

func TestInsights_EmptyInput(t *testing.T) {
	assert.Empty(t, GeneralInsights(nil))
	assert.Empty(t, DriverInsights(nil))
	assert.Empty(t, VehicleInsights(nil))
	assert.Empty(t, CityInsights(nil))
	assert.Empty(t, MaintenanceInsights(nil, nil))
	assert.Empty(t, MapInsights(nil, nil, 0, 0))
}

func TestDriverInsights(t *testing.T) {
	trips := fixture()[:2]
	got := DriverInsights(trips)
	require.Len(t, got, 4)

	assert.Equal(t, "3.00 km/L", got[0].Desc)
	assert.Equal(t, "Baseado em 2 viagens", got[0].Extra)
	assert.Equal(t, "4.0 dias/viagem", got[1].Desc)
	assert.Equal(t, "Total: 8 dias", got[1].Extra)
	assert.Equal(t, "R$ 100,00", got[2].Desc)
	assert.Equal(t, "Viagem #2 • 200 km", got[2].Extra)
	assert.Equal(t, "R$ 75,00", got[3].Desc)
	assert.Equal(t, "Total gasto: R$ 150,00", got[3].Extra)
}

func TestVehicleInsights(t *testing.T) {
	trips := []models.Trip{fixture()[0], fixture()[2]}
	got := VehicleInsights(trips)
	require.Len(t, got, 4)

	assert.Equal(t, "2.25 km/L", got[0].Desc)
	assert.Equal(t, "Melhor: 2.50 km/L", got[0].Extra)
	assert.Equal(t, "65 litros", got[1].Desc)
	assert.Equal(t, "Viagem #1 com A", got[2].Extra)
	assert.Equal(t, "R$ 130,00", got[3].Desc)
	assert.Equal(t, "Custo/KM: R$ 0,87", got[3].Extra)
}

func TestCityInsights(t *testing.T) {
	got := CityInsights(ByCity(fixture()))
	require.Len(t, got, 3)

	assert.Equal(t, "Curitiba", got[0].Desc)
	assert.Equal(t, "350 km", got[0].Extra)
	assert.Equal(t, "3 visitas", got[1].Extra)
	assert.Equal(t, "R$ 140,00", got[2].Extra)
}

func TestMaintenanceInsights(t *testing.T) {
	records := []models.MaintenanceRecord{
		{Plate: "AAA", Items: "Troca de oleo", Cost: models.Num(850)},
		{Plate: "BBB", Items: "Pneus dianteiros", Cost: models.Num(2400)},
		{Plate: "AAA", Items: "Freios", Cost: models.Num(600)},
	}
	got := MaintenanceInsights(records, ByPlate(records))
	require.Len(t, got, 4)

	assert.Equal(t, "R$ 2.400,00", got[0].Desc)
	assert.Equal(t, "BBB • Pneus dianteiros...", got[0].Extra)
	assert.Equal(t, "AAA", got[1].Desc)
	assert.Equal(t, "2 manutenções • R$ 1.450,00", got[1].Extra)
	assert.Equal(t, "R$ 1.283,33", got[2].Desc)
	assert.Equal(t, "2 veículos", got[3].Desc)
}

func TestMapInsights(t *testing.T) {
	ranking := []dtos.CityVisit{{Rank: 1, City: "Curitiba", Visits: 3}, {Rank: 2, City: "Joinville", Visits: 2}}
	stops := []dtos.TripStops{
		{TripID: 1, Stops: 2, DistanceKm: models.Num(100)},
		{TripID: 2, Stops: 4, DistanceKm: models.Num(1200)},
	}
	got := MapInsights(ranking, stops, 4, 5)
	require.Len(t, got, 4)

	assert.Equal(t, "Curitiba", got[0].Desc)
	assert.Equal(t, "Viagem #2", got[1].Desc)
	assert.Equal(t, "4 paradas • 1.200 km", got[1].Extra)
	assert.Equal(t, "3.0 paradas/viagem", got[2].Desc)
	assert.Equal(t, "Total: 4 trechos mapeados", got[2].Extra)
	assert.Equal(t, "5 cidades diferentes", got[3].Desc)
	assert.Equal(t, "2 com visitas registradas", got[3].Extra)
}

func TestCollect_RecoversFromPanics(t *testing.T) {
	got := collect(
		func() (models.Insight, bool) { panic("boom") },
		func() (models.Insight, bool) { return models.Insight{Title: "ok"}, true },
	)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Title)
}

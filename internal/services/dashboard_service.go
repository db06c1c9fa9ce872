package services

import (
	"context"
	"fmt"
	"time"

	"fleetops/dashboard/internal/analytics"
	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/metrics"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"
)

// PageQuery is the caller's selection for one page request. Zero fields keep the
// session's current sidebar filter.
type PageQuery struct {
	From    *time.Time
	To      *time.Time
	Driver  string
	Vehicle string
	View    models.ViewMode

	// Select picks the driver or vehicle detailed on its page.
	Select string

	// Maintenance page selection, independent from the sidebar.
	MaintenanceFrom *time.Time
	MaintenanceTo   *time.Time
	Plate           string

	// RealRouting asks for road geometry; it needs APIKey.
	RealRouting bool
	APIKey      string
}

// pageContext is the shared input of every page builder.
type pageContext struct {
	ctx     context.Context
	state   *SessionState
	dataset *models.Dataset
	trips   []models.Trip
	query   PageQuery
	view    *dtos.PageView
}

func (pc *pageContext) complete() bool {
	return pc.query.View == models.ViewComplete
}

type pageDescriptor struct {
	title string
	// ownFilter pages run even when the sidebar selection is empty.
	ownFilter bool
	build     func(s *DashboardService, pc *pageContext)
}

// DashboardService composes dashboard pages from a session's dataset.
type DashboardService struct {
	maps    *MapService
	metrics *metrics.MetricsRegistry
	pages   map[models.PageID]pageDescriptor
}

func NewDashboardService(maps *MapService, m *metrics.MetricsRegistry) *DashboardService {
	return &DashboardService{
		maps:    maps,
		metrics: m,
		pages: map[models.PageID]pageDescriptor{
			models.PageHome:        {title: "Dashboard de Frota", build: (*DashboardService).buildHome},
			models.PageOverview:    {title: "Visão Geral", build: (*DashboardService).buildOverview},
			models.PageDriver:      {title: "Motoristas", build: (*DashboardService).buildDriver},
			models.PageVehicle:     {title: "Veículos", build: (*DashboardService).buildVehicle},
			models.PageCity:        {title: "Cidades", build: (*DashboardService).buildCity},
			models.PageAnalyses:    {title: "Análises", build: (*DashboardService).buildAnalyses},
			models.PageMaintenance: {title: "Manutenções", ownFilter: true, build: (*DashboardService).buildMaintenance},
			models.PageMap:         {title: "Mapa de Viagens", build: (*DashboardService).buildMap},
		},
	}
}

// Pages lists the known page ids.
func (s *DashboardService) Pages() []models.PageID {
	return []models.PageID{
		models.PageHome, models.PageOverview, models.PageDriver, models.PageVehicle,
		models.PageCity, models.PageAnalyses, models.PageMaintenance, models.PageMap,
	}
}

// Title returns the heading of page, or "" when unknown.
func (s *DashboardService) Title(page models.PageID) string {
	return s.pages[page].title
}

// Page filters the session dataset with q and builds the requested page.
// An empty selection is reported in the view, not as an error.
func (s *DashboardService) Page(ctx context.Context, state *SessionState, page models.PageID, q PageQuery) (*dtos.PageView, error) {
	desc, ok := s.pages[page]
	if !ok {
		return nil, &PageError{Page: page, Code: constants.ErrCodeUnknownPage, Err: ErrUnknownPage}
	}

	state.Lock()
	defer state.Unlock()

	if state.Dataset == nil {
		return nil, &PageError{Page: page, Code: constants.ErrCodeNoDataset, Err: ErrNoDataset}
	}

	start := time.Now()
	state.Filter = mergeFilter(state.Filter, q)
	trips := analytics.ApplyFilter(state.Dataset.Trips, state.Filter)

	pc := &pageContext{
		ctx:     ctx,
		state:   state,
		dataset: state.Dataset,
		trips:   trips,
		query:   q,
		view: &dtos.PageView{
			Page:      page,
			Title:     desc.title,
			View:      models.ParseViewMode(string(q.View)),
			Filter:    state.Filter,
			Options:   Options(state.Dataset),
			TripCount: len(trips),
			KPIs:      []dtos.KPI{},
			Insights:  []models.Insight{},
		},
	}

	if len(trips) == 0 && !desc.ownFilter {
		pc.view.Empty = true
		pc.view.Message = constants.MsgNoTripsForFilter
	} else {
		desc.build(s, pc)
	}

	s.metrics.PageComputed(string(page))
	logging.Debug("Page computed",
		"page", page,
		"session_id", state.ID,
		"trips", len(trips),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pc.view, nil
}

// RecomputeRoutes forgets the session's resolved map segments and coordinates.
func (s *DashboardService) RecomputeRoutes(state *SessionState) int {
	state.Lock()
	defer state.Unlock()
	n := state.Routes.Invalidate()
	logging.Info("Route cache cleared", "session_id", state.ID, "segments", n)
	return n
}

// Options lists the sidebar choices for a dataset.
func Options(ds *models.Dataset) dtos.FilterOptions {
	return dtos.FilterOptions{
		Drivers:  analytics.Drivers(ds.Trips),
		Vehicles: analytics.Vehicles(ds.Trips),
		MinDate:  analytics.MinStart(ds.Trips),
		MaxDate:  analytics.MaxReturn(ds.Trips),
	}
}

func mergeFilter(current models.Filter, q PageQuery) models.Filter {
	f := current
	if q.From != nil {
		f.From = *q.From
	}
	if q.To != nil {
		f.To = *q.To
	}
	if q.Driver != "" {
		f.Driver = q.Driver
	}
	if q.Vehicle != "" {
		f.Vehicle = q.Vehicle
	}
	return f
}

// pick returns want when it is one of choices, else the first choice.
func pick(choices []string, want string) string {
	for _, c := range choices {
		if c == want {
			return c
		}
	}
	if len(choices) == 0 {
		return ""
	}
	return choices[0]
}

func tripsWhere(trips []models.Trip, keep func(models.Trip) bool) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func kmlText(n models.Number) string {
	if !n.Valid {
		return "-"
	}
	return common.FormatFloat(n.Value, 2) + " km/L"
}

func totalsKPIs(t models.Totals) []dtos.KPI {
	return []dtos.KPI{
		{Label: "Total de Viagens", Value: common.FormatNumber(float64(t.Trips))},
		{Label: "KM Total", Value: common.FormatNumber(t.DistanceKm) + " km"},
		{Label: "Gasto Total", Value: common.FormatMoney(t.FinalCost)},
		{Label: "Eficiência Média", Value: kmlText(t.MeanKmPerLiter)},
	}
}

func (s *DashboardService) buildHome(pc *pageContext) {
	totals := analytics.Totals(pc.trips)
	pc.view.KPIs = totalsKPIs(totals)
	pc.view.Home = &dtos.HomeData{
		Totals:     totals,
		PeriodFrom: common.FormatDate(analytics.MinStart(pc.trips)),
		PeriodTo:   common.FormatDate(analytics.MaxReturn(pc.trips)),
		Drivers:    len(analytics.Drivers(pc.trips)),
		Vehicles:   len(analytics.Vehicles(pc.trips)),
	}
}

func (s *DashboardService) buildOverview(pc *pageContext) {
	pc.view.KPIs = totalsKPIs(analytics.Totals(pc.trips))
	data := &dtos.OverviewData{Costs: analytics.CostBreakdown(pc.trips)}
	if pc.complete() {
		data.ByDriver = analytics.ByDriver(pc.trips)
		data.ByVehicle = analytics.ByVehicle(pc.trips)
	}
	pc.view.Overview = data
	pc.view.Insights = analytics.GeneralInsights(pc.trips)
}

func (s *DashboardService) buildDriver(pc *pageContext) {
	choices := analytics.Drivers(pc.trips)
	driver := pick(choices, pc.query.Select)
	trips := tripsWhere(pc.trips, func(t models.Trip) bool { return t.Driver == driver })

	pc.view.KPIs = totalsKPIs(analytics.Totals(trips))
	data := &dtos.DriverData{Driver: driver, Choices: choices, Efficiency: efficiency(trips)}
	if pc.complete() {
		data.History = analytics.SortByStartDesc(trips)
	}
	pc.view.Driver = data
	pc.view.Insights = analytics.DriverInsights(trips)
}

func efficiency(trips []models.Trip) []dtos.TripPoint {
	points := make([]dtos.TripPoint, 0, len(trips))
	for _, t := range trips {
		points = append(points, dtos.TripPoint{TripID: t.ID, KmPerLiter: t.KmPerLiter})
	}
	return points
}

func (s *DashboardService) buildVehicle(pc *pageContext) {
	choices := analytics.Vehicles(pc.trips)
	vehicle := pick(choices, pc.query.Select)
	trips := tripsWhere(pc.trips, func(t models.Trip) bool { return t.Vehicle == vehicle })

	totals := analytics.Totals(trips)
	var liters float64
	for _, t := range trips {
		liters += t.FuelLiters.Or(0)
	}
	util := analytics.Utilization(trips)
	pc.view.KPIs = []dtos.KPI{
		{Label: "Viagens", Value: common.FormatNumber(float64(totals.Trips))},
		{Label: "KM Total", Value: common.FormatNumber(totals.DistanceKm) + " km"},
		{Label: "Consumo", Value: common.FormatNumber(liters) + " L"},
		{Label: "Índice de Utilização", Value: common.FormatFloat(util.Percent, 1) + "%",
			Help: fmt.Sprintf("Meta: %s%%", common.FormatFloat(util.Goal, 0))},
	}

	data := &dtos.VehicleData{Vehicle: vehicle, Choices: choices, Utilization: util}
	if pc.complete() {
		data.History = analytics.SortByStartDesc(trips)
	}
	pc.view.Vehicle = data
	pc.view.Insights = analytics.VehicleInsights(trips)
}

func (s *DashboardService) buildCity(pc *pageContext) {
	cities := analytics.ByCity(pc.trips)
	data := &dtos.CityData{Top: analytics.TopN(cities, 10)}
	if pc.complete() {
		data.All = cities
	}
	pc.view.City = data
	pc.view.Insights = analytics.CityInsights(cities)

	pc.view.KPIs = []dtos.KPI{{Label: "Cidades Atendidas", Value: common.FormatNumber(float64(len(cities)))}}
	if len(cities) == 0 {
		return
	}
	visited := analytics.CityVisits(pc.trips)[0]
	fuel := cities[0]
	for _, c := range cities[1:] {
		if c.FuelCost > fuel.FuelCost {
			fuel = c
		}
	}
	pc.view.KPIs = append(pc.view.KPIs,
		dtos.KPI{Label: "Mais Visitada", Value: visited.City, Help: fmt.Sprintf("%d visitas", visited.Visits)},
		dtos.KPI{Label: "Maior KM", Value: cities[0].City, Help: common.FormatNumber(cities[0].DistanceKm) + " km"},
		dtos.KPI{Label: "Maior Gasto Combustível", Value: fuel.City, Help: common.FormatMoney(fuel.FuelCost)},
	)
}

func (s *DashboardService) buildAnalyses(pc *pageContext) {
	totals := analytics.Totals(pc.trips)
	n := float64(totals.Trips)
	pc.view.KPIs = []dtos.KPI{
		{Label: "Motoristas", Value: common.FormatNumber(float64(len(analytics.Drivers(pc.trips))))},
		{Label: "Veículos", Value: common.FormatNumber(float64(len(analytics.Vehicles(pc.trips))))},
		{Label: "KM Médio/Viagem", Value: common.FormatNumber(totals.DistanceKm/n) + " km"},
		{Label: "Custo Médio/Viagem", Value: common.FormatMoney(totals.FinalCost / n)},
	}

	data := &dtos.AnalysesData{
		ByDriver:  analytics.ByDriver(pc.trips),
		ByVehicle: analytics.ByVehicle(pc.trips),
	}
	if pc.complete() {
		data.Monthly = analytics.Monthly(pc.trips)
	}
	pc.view.Analyses = data
	pc.view.Insights = analytics.GeneralInsights(pc.trips)
}

func (s *DashboardService) buildMaintenance(pc *pageContext) {
	records := pc.dataset.Maintenance
	if len(records) == 0 {
		pc.view.Empty = true
		pc.view.Message = constants.MsgNoMaintenanceSheet
		return
	}

	mf := models.MaintenanceFilter{Plate: models.All}
	if from := analytics.MinStart(pc.dataset.Trips); from != nil {
		mf.From = *from
	}
	if to := analytics.MaxReturn(pc.dataset.Trips); to != nil {
		mf.To = *to
	}
	if pc.query.MaintenanceFrom != nil {
		mf.From = *pc.query.MaintenanceFrom
	}
	if pc.query.MaintenanceTo != nil {
		mf.To = *pc.query.MaintenanceTo
	}
	if pc.query.Plate != "" {
		mf.Plate = pc.query.Plate
	}

	filtered := analytics.FilterMaintenance(records, mf)
	data := &dtos.MaintenanceData{Filter: mf, Plates: analytics.Plates(records), Count: len(filtered)}
	pc.view.Maintenance = data
	if len(filtered) == 0 {
		pc.view.Empty = true
		pc.view.Message = constants.MsgNoMaintenance
		return
	}

	plates := analytics.ByPlate(filtered)
	var total float64
	for _, r := range filtered {
		total += r.Cost.Or(0)
	}
	pc.view.KPIs = []dtos.KPI{
		{Label: "Manutenções", Value: common.FormatNumber(float64(len(filtered)))},
		{Label: "Custo Total", Value: common.FormatMoney(total)},
		{Label: "Custo Médio", Value: common.FormatMoney(total / float64(len(filtered)))},
		{Label: "Veículos", Value: common.FormatNumber(float64(len(plates)))},
	}
	data.ByPlate = analytics.TopN(plates, 10)
	if pc.complete() {
		data.History = analytics.SortByServiceDateDesc(filtered)
	}
	pc.view.Insights = analytics.MaintenanceInsights(filtered, plates)
}

func (s *DashboardService) buildMap(pc *pageContext) {
	key := ""
	if pc.query.RealRouting {
		key = pc.query.APIKey
	}
	result := s.maps.Build(pc.ctx, pc.state.Routes, pc.trips, key, pc.complete())

	pc.view.KPIs = result.KPIs
	pc.view.Map = result.Data
	pc.view.Insights = result.Insights
	if len(result.Data.Cities) == 0 {
		pc.view.Message = constants.MsgNoCoordinates
	}
}

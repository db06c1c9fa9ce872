package workbook

import (
	"fmt"
	"strings"
	"time"

	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
)

// requiredTripColumns must be present on DADOS_VIAGEM.
var requiredTripColumns = []string{
	constants.ColTripID,
	constants.ColDriver,
	constants.ColVehicle,
	constants.ColStartDate,
	constants.ColReturnDate,
	constants.ColOriginCity,
	destCityCol(1),
	destCityCol(2),
	destCityCol(3),
	destCityCol(4),
	constants.ColDistance,
	constants.ColFinalCost,
	constants.ColKmPerLiter,
	constants.ColFuelCost,
	constants.ColDamagesCost,
	constants.ColLodgingCost,
	constants.ColDurationDays,
	constants.ColFuelLiters,
}

func destCityCol(i int) string   { return fmt.Sprintf(constants.ColDestCityFmt, i) }
func destRegionCol(i int) string { return fmt.Sprintf(constants.ColDestRegionFmt, i) }

// sheetTable indexes a sheet's rows by header name.
type sheetTable struct {
	sheet   string
	columns []string
	index   map[string]int
	rows    [][]string
}

func newSheetTable(sheet string, raw [][]string) sheetTable {
	t := sheetTable{sheet: sheet, index: map[string]int{}}
	if len(raw) == 0 {
		return t
	}
	for i, h := range raw[0] {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
			t.columns = append(t.columns, name)
		}
	}
	for _, row := range raw[1:] {
		if !blankRow(row) {
			t.rows = append(t.rows, row)
		}
	}
	return t
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t sheetTable) headerless() bool {
	return len(t.columns) == 0
}

func (t sheetTable) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t sheetTable) require(cols []string) error {
	for _, c := range cols {
		if !t.has(c) {
			return &LoadError{Sheet: t.sheet, Column: c, Err: ErrMissingColumn}
		}
	}
	return nil
}

// cell returns "" for absent columns and short rows.
func (t sheetTable) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t sheetTable) toModel() models.Table {
	out := models.Table{Sheet: t.sheet, Columns: t.columns, Rows: make([]models.Row, 0, len(t.rows))}
	for _, row := range t.rows {
		r := make(models.Row, len(t.columns))
		for _, c := range t.columns {
			r[c] = cleanText(t.cell(row, c))
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Parse turns workbook bytes into a dataset. name only selects the reader (.xls or not).
func Parse(name string, data []byte) (*models.Dataset, error) {
	src, err := openSource(name, data)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	defer func() { _ = src.Close() }()

	present := map[string]bool{}
	for _, s := range src.SheetNames() {
		present[s] = true
	}

	tables := make(map[string]sheetTable, len(constants.RequiredSheets))
	for _, sheet := range constants.RequiredSheets {
		if !present[sheet] {
			return nil, &LoadError{Sheet: sheet, Err: ErrMissingSheet}
		}
		raw, err := src.Rows(sheet)
		if err != nil {
			return nil, &LoadError{Sheet: sheet, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
		}
		tables[sheet] = newSheetTable(sheet, raw)
	}

	trips, err := parseTrips(tables[constants.SheetTrips])
	if err != nil {
		return nil, err
	}
	maintenance, err := parseMaintenance(tables[constants.SheetMaintenance])
	if err != nil {
		return nil, err
	}

	return &models.Dataset{
		FileName:    name,
		Trips:       trips,
		Maintenance: maintenance,
		Fuel:        parseFuel(tables[constants.SheetFuel]),
		Damages:     tables[constants.SheetDamages].toModel(),
		Lodging:     tables[constants.SheetLodging].toModel(),
		Fleet:       tables[constants.SheetFleet].toModel(),
	}, nil
}

func parseTrips(t sheetTable) ([]models.Trip, error) {
	if err := t.require(requiredTripColumns); err != nil {
		return nil, err
	}

	trips := make([]models.Trip, 0, len(t.rows))
	seen := make(map[int]bool, len(t.rows))
	for i, row := range t.rows {
		id, ok := parseID(t.cell(row, constants.ColTripID))
		if !ok {
			logging.Debug("Skipping trip row without a numeric id", "row", i+2)
			continue
		}
		if seen[id] {
			logging.Warn("Skipping duplicate trip id", "trip_id", id, "row", i+2)
			continue
		}
		seen[id] = true

		trip := models.Trip{
			ID:      id,
			Driver:  cleanText(t.cell(row, constants.ColDriver)),
			Vehicle: cleanText(t.cell(row, constants.ColVehicle)),
			Origin: models.Stop{
				City:   cleanText(t.cell(row, constants.ColOriginCity)),
				Region: cleanText(t.cell(row, constants.ColOriginRegion)),
			},
			StartAt:      parseDate(t.cell(row, constants.ColStartDate)),
			ReturnAt:     parseDate(t.cell(row, constants.ColReturnDate)),
			DistanceKm:   parseAmount(t.cell(row, constants.ColDistance)),
			DurationDays: parseAmount(t.cell(row, constants.ColDurationDays)),
			FuelCost:     parseAmount(t.cell(row, constants.ColFuelCost)),
			DamagesCost:  parseAmount(t.cell(row, constants.ColDamagesCost)),
			LodgingCost:  parseAmount(t.cell(row, constants.ColLodgingCost)),
			FinalCost:    parseAmount(t.cell(row, constants.ColFinalCost)),
			FuelLiters:   parseAmount(t.cell(row, constants.ColFuelLiters)),
			KmPerLiter:   parseAmount(t.cell(row, constants.ColKmPerLiter)),
		}
		for d := 1; d <= models.MaxDestinations; d++ {
			trip.Destinations[d-1] = models.Stop{
				City:   cleanText(t.cell(row, destCityCol(d))),
				Region: cleanText(t.cell(row, destRegionCol(d))),
			}
		}

		if trip.StartAt != nil && trip.ReturnAt != nil && trip.ReturnAt.Before(*trip.StartAt) {
			logging.Debug("Return date before start date, treating return as missing", "trip_id", id)
			trip.ReturnAt = nil
		}

		trips = append(trips, trip)
	}
	return trips, nil
}

func parseMaintenance(t sheetTable) ([]models.MaintenanceRecord, error) {
	if t.headerless() {
		return nil, nil
	}
	if err := t.require(constants.RequiredMaintenanceColumns); err != nil {
		return nil, err
	}

	records := make([]models.MaintenanceRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, models.MaintenanceRecord{
			Plate:       cleanText(t.cell(row, constants.ColPlate)),
			ServiceDate: parseDate(t.cell(row, constants.ColServiceDate)),
			Items:       cleanText(t.cell(row, constants.ColItems)),
			Cost:        parseAmount(t.cell(row, constants.ColCost)),
			Payer:       cleanText(t.cell(row, constants.ColPayer)),
		})
	}
	return records, nil
}

func parseFuel(t sheetTable) []models.FuelRecord {
	model := t.toModel()
	records := make([]models.FuelRecord, 0, len(model.Rows))
	for _, row := range model.Rows {
		var date *time.Time
		if t.has(constants.ColFuelDate) {
			date = parseDate(row[constants.ColFuelDate])
		}
		records = append(records, models.FuelRecord{Date: date, Row: row})
	}
	return records
}

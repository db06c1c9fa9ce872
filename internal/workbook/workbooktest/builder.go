// Package workbooktest builds in-memory fleet workbooks for tests.
package workbooktest

import (
	"testing"

	"fleetops/dashboard/internal/constants"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet; the first row is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// TripHeader is the DADOS_VIAGEM header with region columns.
var TripHeader = []interface{}{
	constants.ColTripID, constants.ColDriver, constants.ColVehicle,
	constants.ColStartDate, constants.ColReturnDate,
	constants.ColOriginCity, constants.ColOriginRegion,
	"CIDADE_DE_DESTINO_1", "UF_DESTINO_1",
	"CIDADE_DE_DESTINO_2", "UF_DESTINO_2",
	"CIDADE_DE_DESTINO_3", "UF_DESTINO_3",
	"CIDADE_DE_DESTINO_4", "UF_DESTINO_4",
	constants.ColDistance, constants.ColFinalCost, constants.ColKmPerLiter,
	constants.ColFuelCost, constants.ColDamagesCost, constants.ColLodgingCost,
	constants.ColDurationDays, constants.ColFuelLiters,
}

// MaintenanceHeader is the DESPESAS_MANUTENCOES header.
var MaintenanceHeader = []interface{}{
	constants.ColPlate, constants.ColServiceDate, constants.ColItems, constants.ColCost, constants.ColPayer,
}

// Trip describes one trip row. Dates are written as text.
type Trip struct {
	ID       int
	Driver   string
	Vehicle  string
	Start    string
	Return   string
	Origin   string
	OriginUF string
	Dest     [4]string
	DestUF   [4]string
	Km       float64
	Cost     float64
	KmL      float64
	Fuel     float64
	Damages  float64
	Lodging  float64
	Days     float64
	Liters   float64
}

// Row renders the trip in TripHeader order.
func (t Trip) Row() []interface{} {
	row := []interface{}{t.ID, t.Driver, t.Vehicle, t.Start, t.Return, t.Origin, t.OriginUF}
	for i := 0; i < 4; i++ {
		row = append(row, t.Dest[i], t.DestUF[i])
	}
	return append(row, t.Km, t.Cost, t.KmL, t.Fuel, t.Damages, t.Lodging, t.Days, t.Liters)
}

// Maintenance describes one maintenance row.
type Maintenance struct {
	Plate string
	Date  string
	Items string
	Cost  float64
	Payer string
}

func (m Maintenance) Row() []interface{} {
	return []interface{}{m.Plate, m.Date, m.Items, m.Cost, m.Payer}
}

// Build writes the sheets to an .xlsx byte slice.
func Build(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("Failed to create sheet %s: %v", s.Name, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("Bad cell coordinates: %v", err)
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("Failed to write row %d of %s: %v", r+1, s.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

// Fleet builds a complete six-sheet workbook around the given trips and maintenance rows.
func Fleet(t testing.TB, trips []Trip, maintenance []Maintenance) []byte {
	t.Helper()

	tripRows := [][]interface{}{TripHeader}
	for _, tr := range trips {
		tripRows = append(tripRows, tr.Row())
	}
	maintRows := [][]interface{}{MaintenanceHeader}
	for _, m := range maintenance {
		maintRows = append(maintRows, m.Row())
	}

	return Build(t,
		Sheet{Name: constants.SheetTrips, Rows: tripRows},
		Sheet{Name: constants.SheetFuel, Rows: [][]interface{}{
			{"ID_VIAGEM", constants.ColFuelDate, "LITROS"},
			{1, "2024-01-02", 120.5},
		}},
		Sheet{Name: constants.SheetDamages, Rows: [][]interface{}{{"ID_VIAGEM", "DESCRICAO", "VALOR"}}},
		Sheet{Name: constants.SheetLodging, Rows: [][]interface{}{{"ID_VIAGEM", "HOTEL", "VALOR"}}},
		Sheet{Name: constants.SheetFleet, Rows: [][]interface{}{
			{"PLACA", "MODELO"},
			{"ABC1D23", "Volvo FH"},
		}},
		Sheet{Name: constants.SheetMaintenance, Rows: maintRows},
	)
}

// SampleTrips is a small fleet used across package tests.
func SampleTrips() []Trip {
	return []Trip{
		{
			ID: 1, Driver: "Ana", Vehicle: "Volvo FH", Start: "2024-01-01", Return: "2024-01-04",
			Origin: "Curitiba", OriginUF: "PR",
			Dest:   [4]string{"Joinville", "Blumenau"},
			DestUF: [4]string{"SC", "SC"},
			Km: 100, Cost: 50, KmL: 2.5, Fuel: 30, Damages: 5, Lodging: 15, Days: 3, Liters: 40,
		},
		{
			ID: 2, Driver: "Ana", Vehicle: "Scania R450", Start: "2024-02-01", Return: "2024-02-06",
			Origin: "Curitiba", OriginUF: "PR",
			Dest:   [4]string{"Londrina"},
			DestUF: [4]string{"PR"},
			Km: 200, Cost: 100, KmL: 3.5, Fuel: 70, Damages: 0, Lodging: 30, Days: 5, Liters: 57,
		},
		{
			ID: 3, Driver: "Bruno", Vehicle: "Volvo FH", Start: "2024-02-10", Return: "2024-02-12",
			Origin: "Joinville", OriginUF: "SC",
			Dest:   [4]string{"Curitiba"},
			DestUF: [4]string{"PR"},
			Km: 50, Cost: 80, KmL: 2.0, Fuel: 40, Damages: 20, Lodging: 20, Days: 2, Liters: 25,
		},
	}
}

// SampleMaintenance pairs with SampleTrips.
func SampleMaintenance() []Maintenance {
	return []Maintenance{
		{Plate: "ABC1D23", Date: "2024-01-10", Items: "Troca de oleo e filtros", Cost: 850, Payer: "Empresa"},
		{Plate: "XYZ9K87", Date: "2024-02-03", Items: "Pneus dianteiros", Cost: 2400, Payer: "Empresa"},
		{Plate: "ABC1D23", Date: "2024-02-20", Items: "Revisao de freios", Cost: 600, Payer: "Seguradora"},
	}
}

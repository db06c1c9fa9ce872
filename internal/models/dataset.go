package models

import "time"

// MaintenanceRecord is one row of DESPESAS_MANUTENCOES.
type MaintenanceRecord struct {
	Plate       string     `json:"plate"`
	ServiceDate *time.Time `json:"service_date"`
	Items       string     `json:"items"`
	Cost        Number     `json:"cost"`
	Payer       string     `json:"payer"`
}

// Row is an untyped sheet row keyed by header name.
type Row map[string]string

// Table is an auxiliary sheet loaded as-is.
type Table struct {
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// FuelRecord is one refuelling event from ABASTECIMENTOS.
type FuelRecord struct {
	Date *time.Time `json:"date"`
	Row  Row        `json:"row"`
}

// Dataset holds everything parsed from one workbook.
type Dataset struct {
	// Hash identifies the workbook content.
	Hash        string              `json:"hash"`
	FileName    string              `json:"file_name"`
	LoadedAt    time.Time           `json:"loaded_at"`
	Trips       []Trip              `json:"trips"`
	Maintenance []MaintenanceRecord `json:"maintenance"`
	Fuel        []FuelRecord        `json:"fuel"`
	Damages     Table               `json:"damages"`
	Lodging     Table               `json:"lodging"`
	Fleet       Table               `json:"fleet"`
}

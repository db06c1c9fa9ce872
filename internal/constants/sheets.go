package constants

// Workbook sheet names
const (
	SheetTrips       = "DADOS_VIAGEM"
	SheetFuel        = "ABASTECIMENTOS"
	SheetDamages     = "AVARIAS_VIAGEM"
	SheetLodging     = "HOSPEDAGENS"
	SheetFleet       = "FROTA"
	SheetMaintenance = "DESPESAS_MANUTENCOES"
)

// RequiredSheets lists every sheet a workbook must carry.
var RequiredSheets = []string{
	SheetTrips,
	SheetFuel,
	SheetDamages,
	SheetLodging,
	SheetFleet,
	SheetMaintenance,
}

// Trip columns
const (
	ColTripID       = "ID_VIAGEM"
	ColDriver       = "MOTORISTA"
	ColVehicle      = "MODELO_VEICULO"
	ColStartDate    = "DATA_INICIO_VIAGEM"
	ColReturnDate   = "DATA_RETORNO"
	ColOriginCity   = "CIDADE_DE_PARTIDA"
	ColOriginRegion = "UF_PARTIDA"
	ColDistance     = "KM_TOTAL_PERCORRIDO"
	ColFinalCost    = "GASTO_FINAL_TOTAL"
	ColKmPerLiter   = "TOTAL_KM/LITRO"
	ColFuelCost     = "CUSTO_TOTAL_COMBUSTIVEL"
	ColDamagesCost  = "CUSTO_TOTAL_AVARIAS"
	ColLodgingCost  = "CUSTO_TOTAL_HOSPEDAGEM"
	ColDurationDays = "DIAS_TOTAL_VIAGEM"
	ColFuelLiters   = "TOTAL_LITROS_DIESEL"

	// Destination columns are numbered 1..4.
	ColDestCityFmt   = "CIDADE_DE_DESTINO_%d"
	ColDestRegionFmt = "UF_DESTINO_%d"
)

// Maintenance columns
const (
	ColPlate       = "VEICULO - PLACA"
	ColServiceDate = "DATA_REVISAO"
	ColItems       = "ITENS"
	ColCost        = "VALOR"
	ColPayer       = "RESPONSAVEL_DESPESA"
)

// ColFuelDate is coerced to a timestamp on the fuel sheet.
const ColFuelDate = "DATA_ABASTECIMENTO"

// RequiredMaintenanceColumns must be present on the maintenance sheet.
var RequiredMaintenanceColumns = []string{ColPlate, ColServiceDate, ColItems, ColCost, ColPayer}

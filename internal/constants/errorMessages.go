package constants

const (
	MsgWorkbookLoaded     = "Workbook loaded"
	MsgWorkbookCleared    = "Workbook removed from session"
	MsgPageComputed       = "Page computed"
	MsgRoutesInvalidated  = "Route cache cleared"
	MsgRouteKeySaved      = "Routing key saved for this session"
	MsgRouteKeyCleared    = "Routing key removed"
	MsgNoTripsForFilter   = "No trips match the current filters"
	MsgNoMaintenance      = "No maintenance records in the selected period"
	MsgNoMaintenanceSheet = "No maintenance data available"
	MsgNoCoordinates      = "Could not resolve coordinates for the cities in this selection"
	MsgNoInsights         = "No insights for the current filter"
)

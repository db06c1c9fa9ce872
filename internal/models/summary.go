package models

// Insight is a highlight card.
type Insight struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Extra string `json:"extra"`
}

// GroupSummary aggregates trips sharing one key (driver or vehicle).
type GroupSummary struct {
	Key            string  `json:"key"`
	Count          int     `json:"count"`
	DistanceKm     float64 `json:"distance_km"`
	FinalCost      float64 `json:"final_cost"`
	FuelCost       float64 `json:"fuel_cost"`
	FuelLiters     float64 `json:"fuel_liters"`
	DurationDays   float64 `json:"duration_days"`
	MeanKmPerLiter Number  `json:"mean_km_per_liter"`
}

// CitySummary aggregates every visit of a city as origin or destination.
type CitySummary struct {
	City         string  `json:"city"`
	Visits       int     `json:"visits"`
	DistanceKm   float64 `json:"distance_km"`
	FuelCost     float64 `json:"fuel_cost"`
	DurationDays float64 `json:"duration_days"`
}

// PlateSummary aggregates maintenance cost per vehicle plate.
type PlateSummary struct {
	Plate string  `json:"plate"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// MonthlySummary aggregates trips by the month they started in.
type MonthlySummary struct {
	Month      string  `json:"month"`
	DistanceKm float64 `json:"distance_km"`
	FinalCost  float64 `json:"final_cost"`
}

// CostBreakdown splits spend by category.
type CostBreakdown struct {
	Fuel    float64 `json:"fuel"`
	Damages float64 `json:"damages"`
	Lodging float64 `json:"lodging"`
}

// Totals are the headline KPIs of a trip set.
type Totals struct {
	Trips          int     `json:"trips"`
	DistanceKm     float64 `json:"distance_km"`
	FinalCost      float64 `json:"final_cost"`
	MeanKmPerLiter Number  `json:"mean_km_per_liter"`
}

// Utilization is productive days over the days spanned by a vehicle's trips.
type Utilization struct {
	ProductiveDays float64 `json:"productive_days"`
	AvailableDays  int     `json:"available_days"`
	Percent        float64 `json:"percent"`
	Goal           float64 `json:"goal"`
}

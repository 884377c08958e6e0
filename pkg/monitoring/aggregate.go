package monitoring

import "math"

// Round rounds half values up, the rule every displayed figure uses.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(v*scale+0.5) / scale
}

// Sum adds the values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, or zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// RoundedMean is Round(Mean(values)).
func RoundedMean(values []float64) int {
	return Round(Mean(values))
}

// Percent returns part as a percentage of whole, or zero when whole is zero.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Field projects a numeric field out of a slice.
func Field[T any](items []T, get func(T) float64) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = get(item)
	}
	return out
}

// AverageAQI is the rounded mean AQI of the stations.
func AverageAQI(stations []Station) int {
	return RoundedMean(Field(stations, func(s Station) float64 { return float64(s.AQI) }))
}

// VerificationPercent is the rounded share of verified credits.
func VerificationPercent(summary CreditSummary) int {
	return Round(Percent(summary.VerifiedCredits, summary.TotalCredits))
}

// RouteSummary aggregates the route efficiency table.
type RouteSummary struct {
	TotalTrips    int     `json:"total_trips"`
	AvgEfficiency int     `json:"avg_efficiency"`
	FuelSaved     float64 `json:"fuel_saved"`
	CO2Reduced    float64 `json:"co2_reduced"`
}

// RouteTotals sums trips and savings and averages efficiency.
func RouteTotals(routes []RouteEfficiency) RouteSummary {
	trips := 0
	for _, r := range routes {
		trips += r.Trips
	}
	return RouteSummary{
		TotalTrips:    trips,
		AvgEfficiency: RoundedMean(Field(routes, func(r RouteEfficiency) float64 { return r.Efficiency })),
		FuelSaved:     RoundTo(Sum(Field(routes, func(r RouteEfficiency) float64 { return r.FuelSaved })), 1),
		CO2Reduced:    RoundTo(Sum(Field(routes, func(r RouteEfficiency) float64 { return r.CO2Reduced })), 1),
	}
}

// BestAndWorst returns the routes with the highest and lowest efficiency.
func BestAndWorst(routes []RouteEfficiency) (best, worst RouteEfficiency, ok bool) {
	if len(routes) == 0 {
		return RouteEfficiency{}, RouteEfficiency{}, false
	}
	best, worst = routes[0], routes[0]
	for _, r := range routes[1:] {
		if r.Efficiency > best.Efficiency {
			best = r
		}
		if r.Efficiency < worst.Efficiency {
			worst = r
		}
	}
	return best, worst, true
}

// CO2Savings is the rounded percentage of CO2 the candidate saves over current.
func CO2Savings(current, candidate RouteSuggestion) int {
	return Round(Percent(current.CO2-candidate.CO2, current.CO2))
}

// FleetTotals sums the vehicle table.
type FleetTotals struct {
	Vehicles int     `json:"vehicles"`
	Active   int     `json:"active"`
	Trips    int     `json:"trips"`
	CO2      float64 `json:"co2"`
	Fuel     float64 `json:"fuel"`
}

// SumFleet totals trips, CO2 and fuel over the vehicles.
func SumFleet(vehicles []Vehicle) FleetTotals {
	totals := FleetTotals{Vehicles: len(vehicles)}
	for _, v := range vehicles {
		totals.Trips += v.Trips
		if v.Status == "Active" {
			totals.Active++
		}
	}
	totals.CO2 = RoundTo(Sum(Field(vehicles, func(v Vehicle) float64 { return v.CO2 })), 1)
	totals.Fuel = RoundTo(Sum(Field(vehicles, func(v Vehicle) float64 { return v.Fuel })), 1)
	return totals
}

// CreditTotals sums the transaction ledger.
type CreditTotals struct {
	Credits  float64 `json:"credits"`
	Revenue  float64 `json:"revenue"`
	Verified int     `json:"verified"`
	Pending  int     `json:"pending"`
}

// SumTransactions totals credits and revenue and counts statuses.
func SumTransactions(txs []Transaction) CreditTotals {
	totals := CreditTotals{
		Credits: RoundTo(Sum(Field(txs, func(t Transaction) float64 { return t.Credits })), 2),
		Revenue: RoundTo(Sum(Field(txs, func(t Transaction) float64 { return t.Revenue })), 2),
	}
	for _, tx := range txs {
		if tx.Verified() {
			totals.Verified++
		} else {
			totals.Pending++
		}
	}
	return totals
}

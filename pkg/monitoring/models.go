// Package monitoring holds the static environmental and logistics datasets
// rendered by the carbon dashboard, plus the pure aggregate helpers shared by
// every widget.
package monitoring

// Surface names the widgets a station is listed on.
type Surface string

const (
	SurfaceMonitor   Surface = "monitor"
	SurfaceCommunity Surface = "community"
	SurfaceMap       Surface = "map"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Station is an air-quality monitoring station.
type Station struct {
	ID        int        `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	ShortName string     `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	LabelKey  string     `json:"label_key,omitempty" yaml:"label_key,omitempty"`
	Location  Coordinate `json:"location" yaml:"location"`
	AQI       int        `json:"aqi" yaml:"aqi"`
	PM25      int        `json:"pm25" yaml:"pm25"`
	PM10      int        `json:"pm10" yaml:"pm10"`
	Trend     string     `json:"trend" yaml:"trend"`
	Surfaces  []Surface  `json:"surfaces" yaml:"surfaces"`
}

// MapLabel is the name shown on map tooltips.
func (s Station) MapLabel() string {
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.Name
}

// On reports whether the station is listed on the given surface.
func (s Station) On(surface Surface) bool {
	for _, candidate := range s.Surfaces {
		if candidate == surface {
			return true
		}
	}
	return false
}

// Category returns the AQI bucket of the station reading.
func (s Station) Category() AQICategory {
	return CategorizeAQI(s.AQI)
}

// Hotspot is a fixed point with an emission reading.
type Hotspot struct {
	ID       int        `json:"id" yaml:"id"`
	Type     string     `json:"type" yaml:"type"`
	Location Coordinate `json:"location" yaml:"location"`
	Value    float64    `json:"value" yaml:"value"`
}

// Intensity returns the emission bucket of the hotspot reading.
func (h Hotspot) Intensity() Intensity {
	return ClassifyEmission(h.Value)
}

// EmissionSample is one hourly reading of the emission feed.
type EmissionSample struct {
	Time string  `json:"time" yaml:"time"`
	CO2  float64 `json:"co2" yaml:"co2"`
	Fuel float64 `json:"fuel" yaml:"fuel"`
	RPM  int     `json:"rpm" yaml:"rpm"`
	Load float64 `json:"load" yaml:"load"`
}

// Vehicle summarizes the day of a single truck.
type Vehicle struct {
	ID         string  `json:"id" yaml:"id"`
	Trips      int     `json:"trips" yaml:"trips"`
	Type       string  `json:"type" yaml:"type"`
	CO2        float64 `json:"co2" yaml:"co2"`
	Weight     string  `json:"weight" yaml:"weight"`
	Fuel       float64 `json:"fuel" yaml:"fuel"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
	Status     string  `json:"status" yaml:"status"`
}

// CreditSummary is the carbon-credit position.
type CreditSummary struct {
	TotalCredits        float64 `json:"total_credits" yaml:"total_credits"`
	MonthlyEarned       float64 `json:"monthly_earned" yaml:"monthly_earned"`
	PotentialRevenue    float64 `json:"potential_revenue" yaml:"potential_revenue"`
	VerifiedCredits     float64 `json:"verified_credits" yaml:"verified_credits"`
	PendingVerification float64 `json:"pending_verification" yaml:"pending_verification"`
	MarketPrice         float64 `json:"market_price" yaml:"market_price"`
	MarketChange        string  `json:"market_change" yaml:"market_change"`
	Standard            string  `json:"standard" yaml:"standard"`
}

// Transaction statuses.
const (
	StatusVerified = "Verified"
	StatusPending  = "Pending"
)

// Transaction is a carbon-credit sale.
type Transaction struct {
	Date    string  `json:"date" yaml:"date"`
	Credits float64 `json:"credits" yaml:"credits"`
	Revenue float64 `json:"revenue" yaml:"revenue"`
	Status  string  `json:"status" yaml:"status"`
	Buyer   string  `json:"buyer" yaml:"buyer"`
}

// Verified reports whether the sale carries the verified label.
func (t Transaction) Verified() bool {
	return t.Status == StatusVerified
}

// RouteEfficiency is the aggregated performance of one haul route.
type RouteEfficiency struct {
	Route       string  `json:"route" yaml:"route"`
	Trips       int     `json:"trips" yaml:"trips"`
	Efficiency  float64 `json:"efficiency" yaml:"efficiency"`
	FuelSaved   float64 `json:"fuel_saved" yaml:"fuel_saved"`
	CO2Reduced  float64 `json:"co2_reduced" yaml:"co2_reduced"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// EfficiencyPoint is a monthly fuel-efficiency sample against its target.
type EfficiencyPoint struct {
	Month      string  `json:"month" yaml:"month"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
	Target     float64 `json:"target" yaml:"target"`
}

// TripShare is a slice of the trip-time distribution.
type TripShare struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

// RouteSuggestion is an alternative evaluated for the next trip.
type RouteSuggestion struct {
	Name        string  `json:"name" yaml:"name"`
	Distance    float64 `json:"distance_km" yaml:"distance_km"`
	Fuel        float64 `json:"fuel_l" yaml:"fuel_l"`
	CO2         float64 `json:"co2_kg" yaml:"co2_kg"`
	Time        string  `json:"time" yaml:"time"`
	Current     bool    `json:"current" yaml:"current"`
	Recommended bool    `json:"recommended" yaml:"recommended"`
}

// MapRoute is a corridor drawn on the routes layer of the map.
type MapRoute struct {
	ID         int     `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Efficiency string  `json:"efficiency" yaml:"efficiency"`
	Emissions  string  `json:"emissions" yaml:"emissions"`
	Distance   float64 `json:"distance_km" yaml:"distance_km"`
	Path       string  `json:"path" yaml:"path"`
	Color      string  `json:"color" yaml:"color"`
	Dash       string  `json:"dash,omitempty" yaml:"dash,omitempty"`
	Width      int     `json:"width" yaml:"width"`
}

// Trip is the operator's trip in progress.
type Trip struct {
	ID               string  `json:"id" yaml:"id"`
	Route            string  `json:"route" yaml:"route"`
	Distance         float64 `json:"distance_km" yaml:"distance_km"`
	FuelUsed         float64 `json:"fuel_l" yaml:"fuel_l"`
	CO2              float64 `json:"co2_kg" yaml:"co2_kg"`
	StartTime        string  `json:"start_time" yaml:"start_time"`
	EstimatedArrival string  `json:"estimated_arrival" yaml:"estimated_arrival"`
	Load             float64 `json:"load_t" yaml:"load_t"`
	Status           string  `json:"status" yaml:"status"`
	Progress         float64 `json:"progress" yaml:"progress"`
}

// DayStats is the operator's daily performance.
type DayStats struct {
	TripsCompleted int     `json:"trips_completed" yaml:"trips_completed"`
	TotalDistance  float64 `json:"total_distance_km" yaml:"total_distance_km"`
	TotalFuel      float64 `json:"total_fuel_l" yaml:"total_fuel_l"`
	TotalCO2       float64 `json:"total_co2_kg" yaml:"total_co2_kg"`
	Savings        float64 `json:"savings" yaml:"savings"`
}

// FuelEfficiency returns km per litre for the day.
func (d DayStats) FuelEfficiency() float64 {
	if d.TotalFuel == 0 {
		return 0
	}
	return d.TotalDistance / d.TotalFuel
}

// Achievement is an operator milestone.
type Achievement struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
	Earned      bool   `json:"earned" yaml:"earned"`
}

// KPI is a headline figure on the admin view.
type KPI struct {
	Code   string `json:"code" yaml:"code"`
	Title  string `json:"title" yaml:"title"`
	Value  string `json:"value" yaml:"value"`
	Change string `json:"change" yaml:"change"`
	Trend  string `json:"trend" yaml:"trend"`
	Icon   string `json:"icon" yaml:"icon"`
	Color  string `json:"color" yaml:"color"`
}

// Report is an ESG document and its generation status.
type Report struct {
	Title  string `json:"title" yaml:"title"`
	Period string `json:"period" yaml:"period"`
	Status string `json:"status" yaml:"status"`
}

// AQIReading is a point of the 24-hour AQI trend.
type AQIReading struct {
	Label string `json:"label" yaml:"label"`
	AQI   int    `json:"aqi" yaml:"aqi"`
}

// Reported groups figures published as fixed values with no underlying series.
type Reported struct {
	ModelAccuracy       string `json:"model_accuracy" yaml:"model_accuracy"`
	EmissionReduction   string `json:"emission_reduction" yaml:"emission_reduction"`
	TripRecords         int    `json:"trip_records" yaml:"trip_records"`
	ComplianceScore     string `json:"compliance_score" yaml:"compliance_score"`
	ESGReduction        string `json:"esg_reduction" yaml:"esg_reduction"`
	TrendImprovement    string `json:"trend_improvement" yaml:"trend_improvement"`
	RouteImprovement    string `json:"route_improvement" yaml:"route_improvement"`
	AverageTripTime     string `json:"average_trip_time" yaml:"average_trip_time"`
	TripTimeVsTarget    string `json:"trip_time_vs_target" yaml:"trip_time_vs_target"`
	SensorsOnline       int    `json:"sensors_online" yaml:"sensors_online"`
	SensorsTotal        int    `json:"sensors_total" yaml:"sensors_total"`
	DataSync            string `json:"data_sync" yaml:"data_sync"`
	LastUpdated         string `json:"last_updated" yaml:"last_updated"`
	CommunityEnrollment int    `json:"community_enrollment" yaml:"community_enrollment"`
}

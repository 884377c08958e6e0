package monitoring

// AQI bucket boundaries (inclusive upper bounds).
const (
	AQIGoodMax     = 50
	AQIModerateMax = 100
	// AQIScaleMax is the top of the index scale used for progress bars.
	AQIScaleMax = 500
)

// AQILevel identifies an AQI bucket.
type AQILevel string

const (
	AQIGood     AQILevel = "good"
	AQIModerate AQILevel = "moderate"
	AQIPoor     AQILevel = "poor"
)

// AQICategory is the display bucket of an AQI reading.
type AQICategory struct {
	Level   AQILevel `json:"level"`
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Message string   `json:"message"`
	Icon    string   `json:"icon"`
}

var aqiCategories = map[AQILevel]AQICategory{
	AQIGood: {
		Level:   AQIGood,
		Label:   "Good",
		Color:   "#15803D",
		Message: "Air quality is good. Normal activities recommended.",
		Icon:    "check-circle",
	},
	AQIModerate: {
		Level:   AQIModerate,
		Label:   "Moderate",
		Color:   "#F59E0B",
		Message: "Moderate air quality. Sensitive individuals should limit outdoor exposure.",
		Icon:    "alert-triangle",
	},
	AQIPoor: {
		Level:   AQIPoor,
		Label:   "Poor",
		Color:   "#DC2626",
		Message: "Poor air quality. Limit outdoor activities and use masks.",
		Icon:    "alert-triangle",
	},
}

// CategorizeAQI buckets an AQI value: <=50 Good, <=100 Moderate, else Poor.
func CategorizeAQI(aqi int) AQICategory {
	switch {
	case aqi <= AQIGoodMax:
		return aqiCategories[AQIGood]
	case aqi <= AQIModerateMax:
		return aqiCategories[AQIModerate]
	default:
		return aqiCategories[AQIPoor]
	}
}

// AQILevels lists the buckets in ascending severity for legends.
func AQILevels() []AQICategory {
	return []AQICategory{
		aqiCategories[AQIGood],
		aqiCategories[AQIModerate],
		aqiCategories[AQIPoor],
	}
}

// AQIProgress is the reading as a percentage of the index scale.
func AQIProgress(aqi int) float64 {
	return Percent(float64(aqi), AQIScaleMax)
}

// Emission intensity thresholds in kg CO2.
const (
	EmissionHighAbove  = 80
	EmissionMediumFrom = 40
)

// Intensity is the emission bucket of a hotspot.
type Intensity string

const (
	IntensityHigh   Intensity = "high"
	IntensityMedium Intensity = "medium"
	IntensityLow    Intensity = "low"
)

// Color returns the marker color for the bucket.
func (i Intensity) Color() string {
	switch i {
	case IntensityHigh:
		return "#DC2626"
	case IntensityMedium:
		return "#F59E0B"
	case IntensityLow:
		return "#15803D"
	default:
		return "#6B7280"
	}
}

// ClassifyEmission buckets an emission value: >80 high, >=40 medium, else low.
func ClassifyEmission(value float64) Intensity {
	switch {
	case value > EmissionHighAbove:
		return IntensityHigh
	case value >= EmissionMediumFrom:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// GoodEfficiency is the km/L at or above which a vehicle is shown as efficient.
const GoodEfficiency = 3.4

// EfficientVehicle reports whether the vehicle meets the efficiency mark.
func EfficientVehicle(v Vehicle) bool {
	return v.Efficiency >= GoodEfficiency
}

// TrendColor maps a station trend to its indicator color.
func TrendColor(trend string) string {
	switch trend {
	case "increasing":
		return "#DC2626"
	case "decreasing":
		return "#15803D"
	default:
		return "#6B7280"
	}
}

package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeAQIBoundaries(t *testing.T) {
	cases := []struct {
		aqi  int
		want AQILevel
	}{
		{0, AQIGood},
		{50, AQIGood},
		{51, AQIModerate},
		{100, AQIModerate},
		{101, AQIPoor},
		{500, AQIPoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategorizeAQI(tc.aqi).Level, "aqi %d", tc.aqi)
	}
}

func TestCategorizeAQIIsMonotonic(t *testing.T) {
	rank := map[AQILevel]int{AQIGood: 0, AQIModerate: 1, AQIPoor: 2}
	prev := rank[CategorizeAQI(0).Level]
	for aqi := 1; aqi <= AQIScaleMax; aqi++ {
		cur := rank[CategorizeAQI(aqi).Level]
		if cur < prev {
			t.Fatalf("category decreased at %d", aqi)
		}
		prev = cur
	}
}

func TestCategorizeAQICarriesAdvisory(t *testing.T) {
	poor := CategorizeAQI(150)
	assert.Equal(t, "Poor", poor.Label)
	assert.Equal(t, "#DC2626", poor.Color)
	assert.Contains(t, poor.Message, "use masks")
	assert.Equal(t, "Moderate", CategorizeAQI(95).Label)
}

func TestClassifyEmission(t *testing.T) {
	assert.Equal(t, IntensityHigh, ClassifyEmission(95))
	assert.Equal(t, IntensityMedium, ClassifyEmission(80))
	assert.Equal(t, IntensityMedium, ClassifyEmission(40))
	assert.Equal(t, IntensityLow, ClassifyEmission(39.9))
	assert.Equal(t, "#F59E0B", IntensityMedium.Color())
}

func TestAQIProgress(t *testing.T) {
	assert.InDelta(t, 9.0, AQIProgress(45), 1e-9)
}

package aqi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testData := map[string]struct {
		value    float64
		expected Category
	}{
		"zero":              {value: 0, expected: Good},
		"negative":          {value: -5, expected: Good},
		"50":                {value: 50, expected: Good},
		"50.9 truncates":    {value: 50.9, expected: Good},
		"51":                {value: 51, expected: Moderate},
		"100":               {value: 100, expected: Moderate},
		"101":               {value: 101, expected: UnhealthyForSensitive},
		"150":               {value: 150, expected: UnhealthyForSensitive},
		"151":               {value: 151, expected: Unhealthy},
		"200":               {value: 200, expected: Unhealthy},
		"200.5 truncates":   {value: 200.5, expected: Unhealthy},
		"201":               {value: 201, expected: Hazardous},
		"215":               {value: 215, expected: Hazardous},
		"999":               {value: 999, expected: Hazardous},
		"nan":               {value: math.NaN(), expected: Hazardous},
		"negative infinity": {value: math.Inf(-1), expected: Hazardous},
		"positive infinity": {value: math.Inf(1), expected: Hazardous},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, Classify(td.value))
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	prev := Good
	for v := -10.0; v <= 1000; v += 0.5 {
		c := Classify(v)
		assert.GreaterOrEqual(t, int(c), int(prev), "categories must not decrease at %.1f", v)
		assert.NotEqual(t, "Unknown", c.String())
		prev = c
	}
}

func TestCategoryString(t *testing.T) {
	testData := map[string]struct {
		category Category
		name     string
		color    string
	}{
		"good":         {category: Good, name: "Good", color: "#00e400"},
		"moderate":     {category: Moderate, name: "Moderate", color: "#ffff00"},
		"sensitive":    {category: UnhealthyForSensitive, name: "Unhealthy for Sensitive", color: "#ff7e00"},
		"unhealthy":    {category: Unhealthy, name: "Unhealthy", color: "#ff0000"},
		"hazardous":    {category: Hazardous, name: "Hazardous", color: "#7e0023"},
		"out of range": {category: Category(42), name: "Unknown", color: ""},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.name, td.category.String())
			assert.Equal(t, td.color, td.category.Color())

			text, err := td.category.MarshalText()
			assert.NoError(t, err)
			assert.Equal(t, td.name, string(text))
		})
	}
}

package aqi

import "math"

// Category is the severity of an air quality index reading
type Category int

const (
	Good Category = iota
	Moderate
	UnhealthyForSensitive
	Unhealthy
	Hazardous
)

var categoryNames = map[Category]string{
	Good:                  "Good",
	Moderate:              "Moderate",
	UnhealthyForSensitive: "Unhealthy for Sensitive",
	Unhealthy:             "Unhealthy",
	Hazardous:             "Hazardous",
}

// colors follow the US EPA AQI palette
var categoryColors = map[Category]string{
	Good:                  "#00e400",
	Moderate:              "#ffff00",
	UnhealthyForSensitive: "#ff7e00",
	Unhealthy:             "#ff0000",
	Hazardous:             "#7e0023",
}

func (c Category) String() string {
	if name, exists := categoryNames[c]; exists {
		return name
	}
	return "Unknown"
}

// Color returns the hex color conventionally used for the category
func (c Category) Color() string {
	return categoryColors[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify maps an index reading to its category. The reading is truncated to a whole
// number first so 50.9 is still Good. Non-finite readings are Hazardous.
func Classify(value float64) Category {
	v := math.Trunc(value)
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return Hazardous
	case v <= 50:
		return Good
	case v <= 100:
		return Moderate
	case v <= 150:
		return UnhealthyForSensitive
	case v <= 200:
		return Unhealthy
	default:
		return Hazardous
	}
}

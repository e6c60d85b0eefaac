package aqi

import (
	"time"

	"github.com/aouyang1/go-aqi-forecaster/timedataset"
)

// Origin tags whether a timeline row was observed or projected
type Origin string

const (
	OriginHistorical Origin = "Historical"
	OriginForecast   Origin = "Forecast"
)

// TimelinePoint is a row of the unified timeline. Historical rows carry the observed
// value and no bounds or components. Forecast rows carry the point estimate, its bounds
// and its components.
type TimelinePoint struct {
	DS         time.Time        `json:"ds"`
	Value      float64          `json:"value"`
	Lower      *float64         `json:"lower"`
	Upper      *float64         `json:"upper"`
	Origin     Origin           `json:"origin"`
	Components *PointComponents `json:"components,omitempty"`
}

// Merge concatenates the historical series and the full forecast. The forecast
// reconstructs the historical window as well and those rows are kept, so the result has
// exactly len(historical)+len(forecast) rows.
func Merge(historical *timedataset.TimeDataset, forecast []ForecastPoint) []TimelinePoint {
	timeline := make([]TimelinePoint, 0, historical.Len()+len(forecast))
	for i := 0; i < historical.Len(); i++ {
		timeline = append(timeline, TimelinePoint{
			DS:     historical.T[i],
			Value:  historical.Y[i],
			Origin: OriginHistorical,
		})
	}
	for _, p := range forecast {
		lower, upper := p.YhatLower, p.YhatUpper
		comp := p.Components
		timeline = append(timeline, TimelinePoint{
			DS:         p.DS,
			Value:      p.Yhat,
			Lower:      &lower,
			Upper:      &upper,
			Origin:     OriginForecast,
			Components: &comp,
		})
	}
	return timeline
}

// Split separates a timeline into its historical and forecast rows preserving order
func Split(timeline []TimelinePoint) (historical, forecast []TimelinePoint) {
	for _, p := range timeline {
		switch p.Origin {
		case OriginHistorical:
			historical = append(historical, p)
		case OriginForecast:
			forecast = append(forecast, p)
		}
	}
	return historical, forecast
}

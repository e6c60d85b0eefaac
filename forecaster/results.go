package forecaster

import (
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast"
)

// Results holds the forecast with its confidence band for each requested time along with
// the component breakdown of both models
type Results struct {
	T                  []time.Time         `json:"time"`
	Forecast           []float64           `json:"forecast"`
	Upper              []float64           `json:"upper"`
	Lower              []float64           `json:"lower"`
	SeriesComponents   forecast.Components `json:"series_components"`
	ResidualComponents forecast.Components `json:"residual_components"`
}

// Len returns the number of forecasted time points
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.T)
}

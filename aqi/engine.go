package aqi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
)

const (
	MinForecastDays     = 1
	MaxForecastDays     = 60
	DefaultForecastDays = 30
)

// Model is a trained forecaster which can predict values with a confidence band for any
// time and knows the time points it was trained on
type Model interface {
	TrainingTimes() []time.Time
	Predict(t []time.Time) (*forecaster.Results, error)
}

var _ Model = (*forecaster.Forecaster)(nil)

// PointComponents is the decomposition of a point estimate. In multiplicative models the
// seasonality and holidays are relative effects on the trend.
type PointComponents struct {
	Trend       float64 `json:"trend"`
	Seasonality float64 `json:"seasonality"`
	Holidays    float64 `json:"holidays"`
}

// ForecastPoint is a point estimate with its confidence band where YhatLower <= Yhat <=
// YhatUpper
type ForecastPoint struct {
	DS         time.Time       `json:"ds"`
	Yhat       float64         `json:"yhat"`
	YhatLower  float64         `json:"yhat_lower"`
	YhatUpper  float64         `json:"yhat_upper"`
	Components PointComponents `json:"components"`
}

// ValidateForecastDays rejects horizons outside of [MinForecastDays, MaxForecastDays]
func ValidateForecastDays(days int) error {
	if days < MinForecastDays || days > MaxForecastDays {
		return fmt.Errorf("got %d days, expected %d to %d, %w", days, MinForecastDays, MaxForecastDays, ErrInvalidForecastDays)
	}
	return nil
}

// HorizonHours returns the number of hourly steps of a horizon in days
func HorizonHours(days int) int {
	return days * 24
}

// GenerateForecast predicts every hour of the horizon after last along with the training
// times of the model before the horizon so the fit over the history is reconstructed.
// The result is sorted by time.
func GenerateForecast(model Model, last time.Time, horizonHours int) ([]ForecastPoint, error) {
	if model == nil {
		return nil, ErrModelUnavailable
	}
	if horizonHours < 1 {
		return nil, fmt.Errorf("horizon of %d hours, %w", horizonHours, ErrInvalidForecastDays)
	}

	future := timedataset.TimeSlice{last}.Extend(horizonHours, time.Hour)
	first := future[0]

	training := model.TrainingTimes()
	t := make([]time.Time, 0, len(training)+len(future))
	for _, ts := range training {
		if ts.Before(first) {
			t = append(t, ts)
		}
	}
	t = append(t, future...)

	res, err := model.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict forecast, %w, %w", ErrModelUnavailable, err)
	}
	if res.Len() != len(t) {
		return nil, fmt.Errorf("predicted %d of %d points, %w", res.Len(), len(t), ErrModelUnavailable)
	}

	points := make([]ForecastPoint, len(t))
	for i := range t {
		yhat := res.Forecast[i]
		p := ForecastPoint{
			DS:        t[i],
			Yhat:      yhat,
			YhatLower: min(res.Lower[i], yhat),
			YhatUpper: max(res.Upper[i], yhat),
		}
		if i < len(res.SeriesComponents.Trend) {
			p.Components.Trend = res.SeriesComponents.Trend[i]
		}
		if i < len(res.SeriesComponents.Seasonality) {
			p.Components.Seasonality = res.SeriesComponents.Seasonality[i]
		}
		if i < len(res.SeriesComponents.Event) {
			p.Components.Holidays = res.SeriesComponents.Event[i]
		}
		points[i] = p
	}

	slog.Debug("generated forecast",
		"history_points", len(t)-len(future),
		"horizon_hours", horizonHours,
		"first_future", first,
	)
	return points, nil
}

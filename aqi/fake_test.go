package aqi

import (
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast"
	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
)

var testStart = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

// fakeModel predicts 100 plus the hour of day with a band of 10. Every seventh point has
// its bounds inverted.
type fakeModel struct {
	times []time.Time
	err   error
	calls int
}

func newFakeModel(history *timedataset.TimeDataset) *fakeModel {
	return &fakeModel{times: history.Copy().T}
}

func (m *fakeModel) TrainingTimes() []time.Time {
	return m.times
}

func (m *fakeModel) Predict(t []time.Time) (*forecaster.Results, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	res := &forecaster.Results{
		T:        t,
		Forecast: make([]float64, len(t)),
		Upper:    make([]float64, len(t)),
		Lower:    make([]float64, len(t)),
		SeriesComponents: forecast.Components{
			Trend:       make([]float64, len(t)),
			Seasonality: make([]float64, len(t)),
			Event:       make([]float64, len(t)),
		},
	}
	for i := range t {
		y := 100 + float64(t[i].Hour())
		res.Forecast[i] = y
		res.Upper[i] = y + 10
		res.Lower[i] = y - 10
		if i%7 == 0 {
			res.Upper[i] = y - 1
			res.Lower[i] = y + 1
		}
		res.SeriesComponents.Trend[i] = 100
		res.SeriesComponents.Seasonality[i] = float64(t[i].Hour()) / 100
	}
	return res, nil
}

// hourlyHistory returns n hourly points ending with last
func hourlyHistory(n int, last float64) *timedataset.TimeDataset {
	t := timedataset.GenerateT(testStart, n, time.Hour)
	y := timedataset.GenerateConstY(n, 80)
	y[n-1] = last
	return &timedataset.TimeDataset{T: t, Y: y}
}

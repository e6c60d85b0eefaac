package forecaster

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func generateDailySeries(n int) *timedataset.TimeDataset {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t := timedataset.GenerateT(start, n, time.Hour)
	y := timedataset.GenerateConstY(n, 100).
		Add(timedataset.GenerateWaveY(t, 20, 24*time.Hour, 1, 0)).
		Add(timedataset.GenerateNoise(n, 5, 7))
	return &timedataset.TimeDataset{T: t, Y: y}
}

func TestForecasterFitPredict(t *testing.T) {
	td := generateDailySeries(24 * 28)

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(td.T, td.Y))

	assert.Greater(t, f.Scores().R2, 0.8)
	assert.Len(t, f.Residuals(), td.Len())
	assert.Equal(t, td.T, f.TrainingTimes())

	fitRes := f.FitResults()
	require.NotNil(t, fitRes)
	assert.Equal(t, td.Len(), fitRes.Len())

	horizon := timedataset.TimeSlice(td.T).Extend(48, time.Hour)
	res, err := f.Predict(horizon)
	require.NoError(t, err)
	require.Equal(t, 48, res.Len())
	require.Len(t, res.SeriesComponents.Trend, 48)
	require.Len(t, res.SeriesComponents.Seasonality, 48)

	halfWidth := make([]float64, res.Len())
	for i := 0; i < res.Len(); i++ {
		assert.LessOrEqual(t, res.Lower[i], res.Forecast[i])
		assert.LessOrEqual(t, res.Forecast[i], res.Upper[i])
		halfWidth[i] = res.Upper[i] - res.Forecast[i]
	}
	meanHalfWidth := floats.Sum(halfWidth) / float64(len(halfWidth))
	assert.Greater(t, meanHalfWidth, 5.0)
	assert.Less(t, meanHalfWidth, 15.0)

	expected := timedataset.GenerateConstY(48, 100).
		Add(timedataset.GenerateWaveY(horizon, 20, 24*time.Hour, 1, 0))
	for i := range expected {
		assert.InDelta(t, expected[i], res.Forecast[i], 5.0)
	}
}

func TestForecasterModelRoundTrip(t *testing.T) {
	td := generateDailySeries(24 * 14)

	opt := NewDefaultOptions()
	opt.SeriesOptions.SeasonalityMode = options.SeasonalityModeMultiplicative
	opt.SeriesOptions.EventOptions.Events = []options.Event{
		options.NewEvent("Festival", td.T[48], td.T[72]),
	}

	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(td.T, td.Y))

	m, err := f.Model()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	loaded, err := LoadModel(&buf)
	require.NoError(t, err)
	assert.Len(t, loaded.TrainingTimes, td.Len())

	reloaded, err := NewFromModel(loaded)
	require.NoError(t, err)
	require.Len(t, reloaded.Events(), 1)
	assert.Equal(t, "Festival", reloaded.Events()[0].Name)
	assert.Equal(t, td.T[0].Unix(), reloaded.TrainingTimes()[0].Unix())

	horizon := timedataset.TimeSlice(td.T).Extend(24, time.Hour)
	expected, err := f.Predict(horizon)
	require.NoError(t, err)
	actual, err := reloaded.Predict(horizon)
	require.NoError(t, err)
	assert.InDeltaSlice(t, expected.Forecast, actual.Forecast, 1e-9)
	assert.InDeltaSlice(t, expected.Upper, actual.Upper, 1e-9)
	assert.InDeltaSlice(t, expected.Lower, actual.Lower, 1e-9)

	var tbl strings.Builder
	require.NoError(t, loaded.TablePrint(&tbl, "", "  "))
	assert.Contains(t, tbl.String(), "Series Model")
	assert.Contains(t, tbl.String(), "Residual Model")
	assert.Contains(t, tbl.String(), "Festival")
}

func TestForecasterErrors(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil)
	require.NoError(t, err)
	err = f.Fit(timedataset.GenerateT(start, 3, time.Hour), []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInsufficientResidual)

	var nilForecaster *Forecaster
	_, err = nilForecaster.Predict([]time.Time{start})
	assert.ErrorIs(t, err, ErrUntrainedForecaster)

	_, err = LoadModel(strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrNoOptionsInModel)

	_, err = LoadModel(strings.NewReader("not json"))
	assert.Error(t, err)

	_, err = NewFromModel(Model{})
	assert.ErrorIs(t, err, ErrNoOptionsInModel)

	var buf bytes.Buffer
	assert.ErrorIs(t, f.PlotFit(&buf, nil), ErrEmptyTimeDataset)
}

func TestPlotFit(t *testing.T) {
	td := generateDailySeries(24 * 7)

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(td.T, td.Y))

	var buf bytes.Buffer
	require.NoError(t, f.PlotFit(&buf, &PlotOpts{HorizonCnt: 24}))

	out := buf.String()
	assert.Contains(t, out, "Forecast Fit")
	assert.Contains(t, out, "Forecast Components")
	assert.Contains(t, out, "Forecast Residual")
	assert.Contains(t, out, "Confidence")
}

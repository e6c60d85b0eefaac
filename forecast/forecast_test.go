package forecast

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trainStart = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func dailyWave(n int, base, amp float64) ([]time.Time, []float64) {
	t := timedataset.GenerateT(trainStart, n, time.Hour)
	y := timedataset.GenerateConstY(n, base).
		Add(timedataset.GenerateWaveY(t, amp, 24*time.Hour, 1, 0))
	return t, y
}

func TestFitPredictAdditive(t *testing.T) {
	tSeries, y := dailyWave(24*14, 50, 10)

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tSeries, y))

	scores := f.Scores()
	assert.Greater(t, scores.R2, 0.999)
	assert.Less(t, scores.MSE, 0.01)

	horizon := timedataset.TimeSlice(tSeries).Extend(48, time.Hour)
	expT, expY := dailyWave(24*14+48, 50, 10)
	require.Equal(t, expT[24*14:], horizon)

	res, comp, err := f.Predict(horizon)
	require.NoError(t, err)
	require.Len(t, res, 48)
	assert.InDeltaSlice(t, []float64(expY[24*14:]), res, 0.1)

	require.Len(t, comp.Trend, 48)
	require.Len(t, comp.Seasonality, 48)
	require.Len(t, comp.Event, 48)
	for i := range res {
		assert.InDelta(t, res[i], comp.Trend[i]+comp.Seasonality[i]+comp.Event[i], 1e-9)
		assert.Equal(t, 0.0, comp.Event[i])
	}

	assert.Len(t, f.Residuals(), len(tSeries))
	assert.Len(t, f.TrendComponent(), len(tSeries))
	assert.Len(t, f.SeasonalityComponent(), len(tSeries))

	start, end := f.TrainWindow()
	assert.Equal(t, tSeries[0], start)
	assert.Equal(t, tSeries[len(tSeries)-1], end)
}

func TestFitPredictMultiplicative(t *testing.T) {
	n := 24 * 21
	tSeries := timedataset.GenerateT(trainStart, n, time.Hour)
	y := make([]float64, n)
	for i := range tSeries {
		// seasonal swing proportional to the level
		y[i] = 100 * math.Exp(0.3*math.Sin(2*math.Pi*float64(tSeries[i].Unix())/86400.0))
	}

	opt := options.NewDefaultOptions()
	opt.SeasonalityMode = options.SeasonalityModeMultiplicative
	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tSeries, y))
	assert.Greater(t, f.Scores().R2, 0.99)

	res, comp, err := f.Predict(tSeries[:48])
	require.NoError(t, err)
	for i := range res {
		assert.InDelta(t, y[i], res[i], 1.0)
		assert.Greater(t, res[i], 0.0)

		// trend * (1+seasonality) * (1+event) reconstructs the prediction
		rebuilt := (1+comp.Trend[i])*(1+comp.Seasonality[i])*(1+comp.Event[i]) - 1
		assert.InDelta(t, res[i], rebuilt, 1e-6)
	}

	eq, err := f.ModelEq()
	require.NoError(t, err)
	assert.Contains(t, eq, "log1p(y) ~ ")
}

func TestFitEvents(t *testing.T) {
	n := 24 * 28
	tSeries, y := dailyWave(n, 80, 5)

	dayOne := trainStart.Add(3 * 24 * time.Hour)
	dayTwo := trainStart.Add(17 * 24 * time.Hour)
	future := trainStart.Add(30 * 24 * time.Hour)

	spans := []feature.Span{
		{Start: dayOne, End: dayOne.Add(24 * time.Hour)},
		{Start: dayTwo, End: dayTwo.Add(24 * time.Hour)},
	}
	bump := feature.NewEvent("x").Generate(tSeries, spans)
	for i := range y {
		y[i] += 20 * bump[i]
	}

	opt := options.NewDefaultOptions()
	opt.EventOptions.Events = []options.Event{
		options.NewEvent("Festival", dayOne, dayOne.Add(24*time.Hour)),
		options.NewEvent("Festival", dayTwo, dayTwo.Add(24*time.Hour)),
		options.NewEvent("Festival", future, future.Add(24*time.Hour)),
		options.NewEvent("Never Seen", future.Add(48*time.Hour), future.Add(72*time.Hour)),
	}

	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tSeries, y))

	coef, err := f.Coefficients()
	require.NoError(t, err)
	assert.InDelta(t, 20.0, coef["event_festival"], 0.5)

	// events without any training occurrence are not part of the model
	_, exists := coef["event_never_seen"]
	assert.False(t, exists)

	res, comp, err := f.Predict([]time.Time{future.Add(-time.Hour), future.Add(time.Hour)})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, comp.Event[0], 1e-9)
	assert.InDelta(t, 20.0, comp.Event[1], 0.5)
	assert.InDelta(t, 20.0, res[1]-res[0], 5.0)
}

func TestModelRoundTrip(t *testing.T) {
	tSeries, y := dailyWave(24*14, 50, 10)

	opt := options.NewDefaultOptions()
	opt.ChangepointOptions.Auto = true
	opt.ChangepointOptions.AutoNumChangepoints = 5
	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tSeries, y))

	m, err := f.Model()
	require.NoError(t, err)
	require.Len(t, m.Options.ChangepointOptions.Changepoints, 5)

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var loaded Model
	require.NoError(t, json.Unmarshal(out, &loaded))

	reloaded, err := NewFromModel(loaded)
	require.NoError(t, err)

	horizon := timedataset.TimeSlice(tSeries).Extend(24, time.Hour)
	expected, _, err := f.Predict(horizon)
	require.NoError(t, err)
	res, _, err := reloaded.Predict(horizon)
	require.NoError(t, err)
	assert.InDeltaSlice(t, expected, res, 1e-9)
	assert.Equal(t, f.Scores(), reloaded.Scores())

	var buf bytes.Buffer
	require.NoError(t, loaded.TablePrint(&buf, "", "  "))
	assert.Contains(t, buf.String(), "Weights:")
	assert.Contains(t, buf.String(), "auto_05")
}

func TestForecastErrors(t *testing.T) {
	var nilForecast *Forecast
	assert.ErrorIs(t, nilForecast.Fit(nil, nil), ErrUninitializedForecast)
	_, _, err := nilForecast.Predict(nil)
	assert.ErrorIs(t, err, ErrUninitializedForecast)

	_, err = New(&options.Options{SeasonalityMode: "bogus"})
	assert.ErrorIs(t, err, options.ErrUnknownSeasonalityMode)

	f, err := New(nil)
	require.NoError(t, err)

	_, _, err = f.Predict([]time.Time{trainStart})
	assert.ErrorIs(t, err, ErrUntrainedForecast)
	_, err = f.Model()
	assert.ErrorIs(t, err, ErrUntrainedForecast)

	err = f.Fit([]time.Time{trainStart, trainStart.Add(time.Hour)}, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, ErrInsufficientTrainingData)

	opt := options.NewDefaultOptions()
	opt.SeasonalityMode = options.SeasonalityModeMultiplicative
	f, err = New(opt)
	require.NoError(t, err)
	err = f.Fit([]time.Time{trainStart, trainStart.Add(time.Hour)}, []float64{1, -2})
	assert.ErrorIs(t, err, ErrNegativeMultiplicative)

	_, err = NewFromModel(Model{})
	assert.ErrorIs(t, err, ErrUninitializedForecast)

	_, err = NewFromModel(Model{Options: options.NewDefaultOptions()})
	assert.ErrorIs(t, err, ErrNoModelCoefficients)
}

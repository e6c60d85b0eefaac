// Package forecaster fits a seasonal forecast of a time series along with an uncertainty
// model of its residual which together produce a forecast with a confidence band.
package forecaster

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast"
	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/aouyang1/go-aqi-forecaster/stats"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/go-echarts/go-echarts/v2/components"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInsufficientResidual = errors.New("insufficient samples from residual")
	ErrEmptyTimeDataset     = errors.New("no timedataset or uninitialized")
	ErrNoOptionsInModel     = errors.New("no options set in model")
	ErrCannotInferInterval  = errors.New("cannot infer interval from training data time")
	ErrUntrainedForecaster  = errors.New("forecaster has not been trained yet")
)

const (
	MinResidualWindow       = 2
	MinResidualSize         = 4
	MinResidualWindowFactor = 4
)

// Forecaster fits a forecast model and can be used to generate forecasts
type Forecaster struct {
	opt *Options

	seriesForecast   *forecast.Forecast
	residualForecast *forecast.Forecast

	trainingTimes   []time.Time
	fitTrainingData *timedataset.TimeDataset
	fitResults      *Results
	residual        []float64
}

// New creates a new instance of a Forecaster using the provided options. If no options are provided
// a default is used.
func New(opt *Options) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	opt.setDefaults()

	f := &Forecaster{
		opt: opt,
	}

	seriesForecast, err := forecast.New(f.opt.SeriesOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize forecast series, %w", err)
	}
	f.seriesForecast = seriesForecast

	residualForecast, err := forecast.New(f.opt.ResidualOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize forecast residual, %w", err)
	}
	f.residualForecast = residualForecast
	return f, nil
}

// NewFromModel creates a new instance of Forecaster from a pre-existing model. This should be generated
// from a previous forecaster call to Model().
func NewFromModel(model Model) (*Forecaster, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	opt := model.Options
	opt.SeriesOptions = model.Series.Options
	opt.ResidualOptions = model.Residual.Options

	seriesForecast, err := forecast.NewFromModel(model.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to load from series model, %w", err)
	}
	residualForecast, err := forecast.NewFromModel(model.Residual)
	if err != nil {
		return nil, fmt.Errorf("unable to load from residual model, %w", err)
	}

	trainingTimes := make([]time.Time, len(model.TrainingTimes))
	copy(trainingTimes, model.TrainingTimes)

	f := &Forecaster{
		opt:              opt,
		seriesForecast:   seriesForecast,
		residualForecast: residualForecast,
		trainingTimes:    trainingTimes,
	}
	return f, nil
}

// Fit fits the series forecast on the input and then the uncertainty forecast on the
// rolling spread of the series residual
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	if f == nil {
		return ErrEmptyTimeDataset
	}
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	f.fitTrainingData = td.Copy()
	f.trainingTimes = td.Copy().T

	if err := f.seriesForecast.Fit(td.T, td.Y); err != nil {
		return fmt.Errorf("unable to forecast series, %w", err)
	}
	f.residual = f.seriesForecast.Residuals()

	if err := f.fitResidual(td.T, f.residual); err != nil {
		return err
	}

	f.fitResults, err = f.Predict(td.T)
	if err != nil {
		return fmt.Errorf("unable to get predicted values from training set, %w", err)
	}

	scores := f.seriesForecast.Scores()
	slog.Info("fit forecaster",
		"points", td.Len(),
		"residual_window", f.opt.ResidualWindow,
		"mse", scores.MSE,
		"mape", scores.MAPE,
		"r2", scores.R2,
	)
	return nil
}

func (f *Forecaster) fitResidual(t []time.Time, residual []float64) error {
	if len(residual) < MinResidualSize {
		return ErrInsufficientResidual
	}
	// compute rolling window standard deviation of residual for uncertainty bands

	// limit residual window to a quarter of the resulting residual output
	if len(residual)/MinResidualWindowFactor < f.opt.ResidualWindow {
		f.opt.ResidualWindow = len(residual) / MinResidualWindowFactor
	}
	if f.opt.ResidualWindow < MinResidualWindow {
		f.opt.ResidualWindow = MinResidualWindow
	}

	spread, err := stats.RollingStdDev(residual, f.opt.ResidualWindow)
	if err != nil {
		return fmt.Errorf("unable to compute residual spread, %w", err)
	}
	floats.Scale(f.opt.ResidualZscore, spread)

	// shifting by half the residual window since computing the residual series is similar to a
	// finite impulse response filtering having a group delay of window/2.
	start := f.opt.ResidualWindow / 2
	end := start + len(spread)

	if err := f.residualForecast.Fit(t[start:end], spread); err != nil {
		return fmt.Errorf("unable to forecast residual, %w", err)
	}

	return nil
}

// Predict takes in any set of time samples and generates a forecast, upper, lower values per time point
func (f *Forecaster) Predict(t []time.Time) (*Results, error) {
	if f == nil || f.seriesForecast == nil || f.residualForecast == nil {
		return nil, ErrUntrainedForecaster
	}
	seriesRes, seriesComp, err := f.seriesForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series forecasts, %w", err)
	}
	residualRes, residualComp, err := f.residualForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict residual forecasts, %w", err)
	}

	// cap residual predictions to be greater than or equal to 0
	for i := 0; i < len(residualRes); i++ {
		if residualRes[i] < 0.0 || math.IsNaN(residualRes[i]) {
			residualRes[i] = 0.0
		}
	}

	r := &Results{
		T:                  t,
		Forecast:           seriesRes,
		SeriesComponents:   seriesComp,
		ResidualComponents: residualComp,
	}
	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))

	copy(upper, seriesRes)
	copy(lower, seriesRes)

	floats.Add(upper, residualRes)
	floats.Sub(lower, residualRes)
	r.Upper = upper
	r.Lower = lower
	return r, nil
}

// Residuals returns the difference between the final series fit against the training data
func (f *Forecaster) Residuals() []float64 {
	return f.residual
}

// TrendComponent returns the trend component created by changepoints after fitting
func (f *Forecaster) TrendComponent() []float64 {
	return f.seriesForecast.TrendComponent()
}

// SeasonalityComponent returns the seasonality component after fitting the fourier series
func (f *Forecaster) SeasonalityComponent() []float64 {
	return f.seriesForecast.SeasonalityComponent()
}

// SeriesCoefficients returns all coefficient weight associated with the component label string
func (f *Forecaster) SeriesCoefficients() (map[string]float64, error) {
	return f.seriesForecast.Coefficients()
}

// ResidualCoefficients returns all uncertainty coefficient weights associated with the component label string
func (f *Forecaster) ResidualCoefficients() (map[string]float64, error) {
	return f.residualForecast.Coefficients()
}

// Scores returns the fit scores of the series model
func (f *Forecaster) Scores() stats.Scores {
	return f.seriesForecast.Scores()
}

// Events returns the events modelled by the series forecast
func (f *Forecaster) Events() []options.Event {
	if f == nil || f.opt == nil || f.opt.SeriesOptions == nil {
		return nil
	}
	return f.opt.SeriesOptions.EventOptions.Events
}

// TrainingTimes returns the time points the model was trained on
func (f *Forecaster) TrainingTimes() []time.Time {
	if f == nil {
		return nil
	}
	res := make([]time.Time, len(f.trainingTimes))
	copy(res, f.trainingTimes)
	return res
}

// Model generates a serializeable representation of the fit options, series model, and uncertainty model. This
// can be used to initialize a new Forecaster for immediate predictions skipping the training step.
func (f *Forecaster) Model() (Model, error) {
	seriesModel, err := f.seriesForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch series model, %w", err)
	}
	residualModel, err := f.residualForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch residual model, %w", err)
	}
	m := Model{
		Options:       f.opt,
		Series:        seriesModel,
		Residual:      residualModel,
		TrainingTimes: f.TrainingTimes(),
	}
	return m, nil
}

// SeriesModelEq returns a string representation of the fit series model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) SeriesModelEq() (string, error) {
	return f.seriesForecast.ModelEq()
}

// ResidualModelEq returns a string representation of the fit uncertainty model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) ResidualModelEq() (string, error) {
	return f.residualForecast.ModelEq()
}

// TrainingData returns the training data used to fit the current forecaster model
func (f *Forecaster) TrainingData() *timedataset.TimeDataset {
	return f.fitTrainingData
}

// FitResults returns the results of the fit which includes the forecast, upper, and lower values
func (f *Forecaster) FitResults() *Results {
	return f.fitResults
}

// PlotOpts sets the horizon to forecast out. By default will use 10% of the training size assuming
// even intervals between points.
type PlotOpts struct {
	HorizonCnt      int
	HorizonInterval time.Duration
}

// PlotFit uses the Apache Echarts library to generate an html page showing the resulting fit,
// model components, and fit residual
func (f *Forecaster) PlotFit(w io.Writer, opt *PlotOpts) error {
	td := f.TrainingData()
	if td == nil || f.fitResults == nil {
		return ErrEmptyTimeDataset
	}
	if td.Len() < 2 {
		return ErrCannotInferInterval
	}

	horizonCnt := td.Len() / 10
	horizonInterval, err := timedataset.TimeSlice(td.T).EstimateFreq()
	if err != nil {
		return fmt.Errorf("%w, %w", ErrCannotInferInterval, err)
	}
	if opt != nil {
		horizonCnt = opt.HorizonCnt
		if opt.HorizonInterval > 0 {
			horizonInterval = opt.HorizonInterval
		}
	}
	if horizonCnt < 1 {
		horizonCnt = 1
	}

	horizon := timedataset.TimeSlice(td.T).Extend(horizonCnt, horizonInterval)
	forecastRes, err := f.Predict(horizon)
	if err != nil {
		return fmt.Errorf("unable to predict with horizon, %w", err)
	}

	t := make([]time.Time, 0, td.Len()+horizonCnt)
	t = append(t, td.T...)
	t = append(t, horizon...)

	trendComp := append(f.TrendComponent(), forecastRes.SeriesComponents.Trend...)
	seasonComp := append(f.SeasonalityComponent(), forecastRes.SeriesComponents.Seasonality...)

	page := components.NewPage()
	page.AddCharts(
		LineForecaster(td, f.fitResults, forecastRes),
		LineTSeries(
			"Forecast Components",
			[]string{"Trend", "Seasonality"},
			t,
			[][]float64{
				trendComp,
				seasonComp,
			},
		),
		LineTSeries(
			"Forecast Residual",
			[]string{"Residual"},
			td.T,
			[][]float64{f.Residuals()},
		),
	)
	return page.Render(w)
}

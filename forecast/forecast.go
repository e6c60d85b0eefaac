// Package forecast fits a single linear seasonal model of a univariate time series
package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/aouyang1/go-aqi-forecaster/forecast/util"
	"github.com/aouyang1/go-aqi-forecaster/linearmodel"
	"github.com/aouyang1/go-aqi-forecaster/stats"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast    = errors.New("uninitialized forecast")
	ErrInsufficientTrainingData = errors.New("insufficient training data after removing Nans")
	ErrNoModelCoefficients      = errors.New("no model coefficients from fit")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
	ErrNegativeMultiplicative   = errors.New("multiplicative mode requires values greater than -1")
	ErrCoefLabelMismatch        = errors.New("number of coefficients does not match feature labels")
)

// Components is the contribution of each feature group to the prediction. In
// multiplicative mode the trend is in the units of the series while seasonality and
// event are relative effects on the trend, e.g. 0.1 is 10% above trend.
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
	Event       []float64 `json:"event"`
}

// Forecast represents a single forecast model of a time series. This is a ridge regularized
// linear model decomposing the series into a growth trend with changepoints, seasonal
// components, and events.
type Forecast struct {
	opt    *options.Options
	scores *stats.Scores // score calculations after training

	// model coefficients
	fLabels *feature.Labels
	coef    []float64

	trainStartTime  time.Time
	trainEndTime    time.Time
	residual        []float64
	trainComponents Components
	trained         bool
}

// New creates a new forecast instance with the given options. If none are provided, a default
// is used
func New(opt *options.Options) (*Forecast, error) {
	if opt == nil {
		opt = options.NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forecast options, %w", err)
	}

	return &Forecast{opt: opt}, nil
}

// NewFromModel creates a new forecast instance given a forecast Model to initialize. This
// instance can be used for inference immediately and does not need to be trained again.
func NewFromModel(model Model) (*Forecast, error) {
	if model.Options == nil {
		return nil, ErrUninitializedForecast
	}
	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}
	coef := model.Weights.Coefficients()
	if len(coef) == 0 {
		return nil, ErrNoModelCoefficients
	}

	f := &Forecast{
		opt:            model.Options,
		fLabels:        feature.NewLabels(labels),
		coef:           coef,
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
		scores:         model.Scores,
		trained:        true,
	}
	return f, nil
}

// Fit takes the input training data and fits a forecast model for possible changepoints,
// seasonal components, and events
func (f *Forecast) Fit(t []time.Time, y []float64) error {
	if f == nil {
		return ErrUninitializedForecast
	}

	trainingData, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return err
	}

	trainingT := make([]time.Time, 0, len(trainingData.T))
	trainingY := make([]float64, 0, len(trainingData.Y))
	for i := 0; i < len(trainingData.T); i++ {
		if math.IsNaN(trainingData.Y[i]) {
			continue
		}
		trainingT = append(trainingT, trainingData.T[i])
		trainingY = append(trainingY, trainingData.Y[i])
	}

	if len(trainingT) <= 1 {
		return ErrInsufficientTrainingData
	}

	if f.opt.Multiplicative() {
		if floats.Min(trainingY) <= -1 {
			return ErrNegativeMultiplicative
		}
		util.SliceMap(trainingY, math.Log1p)
	}

	f.trainStartTime = trainingT[0]
	f.trainEndTime = trainingT[len(trainingT)-1]
	f.opt.ChangepointOptions.GenerateAutoChangepoints(f.trainStartTime, f.trainEndTime)

	x := f.opt.GenerateFeatures(trainingT, f.trainStartTime, f.trainEndTime)
	dropEmptyFeatures(x)
	f.fLabels = x.Labels()

	penalties := make([]float64, f.fLabels.Len())
	for i, label := range f.fLabels.Labels() {
		penalties[i] = f.opt.Penalty(label)
	}

	model, err := linearmodel.NewRidgeRegression(&linearmodel.RidgeOptions{Penalties: penalties})
	if err != nil {
		return err
	}
	if err := model.Fit(x.Matrix(), trainingY); err != nil {
		return fmt.Errorf("unable to fit forecast weights, %w", err)
	}
	f.coef = model.Coef()
	f.trained = true

	// use input training to include NaNs
	predicted, comp, err := f.Predict(trainingData.T)
	if err != nil {
		return err
	}
	f.trainComponents = comp

	scores, err := stats.NewScores(predicted, trainingData.Y)
	if err != nil {
		return err
	}
	f.scores = scores

	residual := make([]float64, len(trainingData.T))
	floats.SubTo(residual, trainingData.Y, predicted)
	f.residual = residual

	slog.Debug("fit forecast",
		"features", f.fLabels.Len(),
		"points", len(trainingT),
		"mse", scores.MSE,
		"r2", scores.R2,
	)
	return nil
}

// dropEmptyFeatures removes columns which are zero for every training point such as
// events which never occur in the training window
func dropEmptyFeatures(x *feature.Set) {
	for _, label := range x.Labels().Labels() {
		data, _ := x.Get(label)
		empty := true
		for _, v := range data {
			if v != 0 {
				empty = false
				break
			}
		}
		if empty {
			slog.Debug("dropping feature without training data", "feature", label.String())
			x.Del(label)
		}
	}
}

// Predict takes a slice of times in any order and produces the predicted value for those
// times given a pre-trained model.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}

	if !f.trained {
		return nil, Components{}, ErrUntrainedForecast
	}

	if len(t) == 0 {
		return []float64{}, Components{}, nil
	}

	x := f.opt.GenerateFeatures(t, f.trainStartTime, f.trainEndTime)

	trend := make([]float64, len(t))
	seasonality := make([]float64, len(t))
	event := make([]float64, len(t))

	for _, ftype := range []feature.FeatureType{
		feature.FeatureTypeGrowth,
		feature.FeatureTypeChangepoint,
		feature.FeatureTypeSeasonality,
		feature.FeatureTypeEvent,
	} {
		contrib, err := f.runInference(x, ftype, len(t))
		if err != nil {
			return nil, Components{}, err
		}
		switch ftype {
		case feature.FeatureTypeGrowth, feature.FeatureTypeChangepoint:
			floats.Add(trend, contrib)
		case feature.FeatureTypeSeasonality:
			floats.Add(seasonality, contrib)
		case feature.FeatureTypeEvent:
			floats.Add(event, contrib)
		}
	}

	res := make([]float64, len(t))
	floats.Add(res, trend)
	floats.Add(res, seasonality)
	floats.Add(res, event)

	if f.opt.Multiplicative() {
		util.SliceMap(res, math.Expm1)
		util.SliceMap(trend, math.Expm1)
		util.SliceMap(seasonality, math.Expm1)
		util.SliceMap(event, math.Expm1)
	}

	comp := Components{
		Trend:       trend,
		Seasonality: seasonality,
		Event:       event,
	}
	return res, comp, nil
}

// runInference computes the contribution of the trained features of one type. Features
// not generated for the time points, e.g. a seasonality longer than the window, contribute
// nothing.
func (f *Forecast) runInference(x *feature.Set, ftype feature.FeatureType, m int) ([]float64, error) {
	labels := f.fLabels.Labels()
	if len(labels) != len(f.coef) {
		return nil, fmt.Errorf("%d coefficients for %d labels, %w", len(f.coef), len(labels), ErrCoefLabelMismatch)
	}

	var cols [][]float64
	var weights []float64
	for i, label := range labels {
		if label.Type() != ftype {
			continue
		}
		data, exists := x.Get(label)
		if !exists {
			continue
		}
		cols = append(cols, data)
		weights = append(weights, f.coef[i])
	}

	if len(cols) == 0 {
		return make([]float64, m), nil
	}

	obs := make([]float64, m*len(cols))
	for j, col := range cols {
		for i := 0; i < m; i++ {
			obs[i*len(cols)+j] = col[i]
		}
	}
	return linearmodel.Predict(mat.NewDense(m, len(cols), obs), weights)
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil {
		return nil
	}

	return f.fLabels.Labels()
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.fLabels.Labels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64)
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Model returns the serializeable format of the forecast model composing of the
// forecast options, coefficients with their feature labels, and the model fit scores
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	if !f.trained {
		return Model{}, ErrUntrainedForecast
	}

	fws := make([]FeatureWeight, 0, len(f.coef))
	labels := f.fLabels.Labels()
	for i, c := range f.coef {
		fws = append(fws, NewFeatureWeight(labels[i], c))
	}
	m := Model{
		TrainStartTime: f.trainStartTime,
		TrainEndTime:   f.trainEndTime,
		Options:        f.opt,
		Weights:        Weights{Coef: fws},
		Scores:         f.scores,
	}
	return m, nil
}

// ModelEq returns a string representation of the model linear equation in the format of
// y ~ m1x1 + m2x2 + ...
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	coef, err := f.Coefficients()
	if err != nil {
		return "", err
	}

	eq := "y ~ "
	if f.opt.Multiplicative() {
		eq = "log1p(y) ~ "
	}

	var terms int
	for _, label := range f.fLabels.Labels() {
		w := coef[label.String()]
		if w == 0 {
			continue
		}
		if terms > 0 {
			eq += "+"
		}
		eq += fmt.Sprintf("%.2f*%s", w, label)
		terms++
	}
	return eq, nil
}

// Scores returns the fit scores for evaluating how well the resulting model
// fit the training data
func (f *Forecast) Scores() stats.Scores {
	if f == nil || f.scores == nil {
		return stats.Scores{}
	}
	return *f.scores
}

// Residuals returns a slice of values representing the difference between the
// training data and the fit data
func (f *Forecast) Residuals() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// TrendComponent represents the overall trend component of the model which is determined
// by the growth and changepoints.
func (f *Forecast) TrendComponent() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.trainComponents.Trend))
	copy(res, f.trainComponents.Trend)
	return res
}

// SeasonalityComponent represents the overall seasonal component of the model
func (f *Forecast) SeasonalityComponent() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.trainComponents.Seasonality))
	copy(res, f.trainComponents.Seasonality)
	return res
}

// TrainWindow returns the first and last training time points
func (f *Forecast) TrainWindow() (time.Time, time.Time) {
	if f == nil {
		return time.Time{}, time.Time{}
	}
	return f.trainStartTime, f.trainEndTime
}

// Package options contains all forecast options for a linear fit of a univariate time series
package options

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/util"
)

type SeasonalityMode string

const (
	SeasonalityModeAdditive       SeasonalityMode = "additive"
	SeasonalityModeMultiplicative SeasonalityMode = "multiplicative"
)

const (
	DefaultRegularization = 1e-4
)

var (
	ErrUnknownSeasonalityMode = errors.New("unknown seasonality mode")
	ErrUnknownGrowthType      = errors.New("unknown growth type")
	ErrNegativeRegularization = errors.New("regularization must be non-negative")
)

// Options configures a forecast by specifying the growth, changepoints, seasonality
// orders and events along with the regularization applied to each group of features.
type Options struct {
	// SeasonalityMode multiplicative fits log1p(y) so every component scales with the
	// trend
	SeasonalityMode SeasonalityMode `json:"seasonality_mode"`

	// GrowthType is either empty for a flat baseline or linear
	GrowthType string `json:"growth_type"`

	// Regularization is the ridge penalty on seasonality and event weights
	Regularization float64 `json:"regularization"`

	ChangepointOptions ChangepointOptions `json:"changepoint_options"`
	SeasonalityOptions SeasonalityOptions `json:"seasonality_options"`
	EventOptions       EventOptions       `json:"event_options"`
}

// NewDefaultOptions returns a set of default forecast options
func NewDefaultOptions() *Options {
	return &Options{
		SeasonalityMode:    SeasonalityModeAdditive,
		GrowthType:         feature.GrowthLinear,
		Regularization:     DefaultRegularization,
		ChangepointOptions: NewDefaultChangepointOptions(),
		SeasonalityOptions: NewDefaultSeasonalityOptions(),
	}
}

// Validate checks for unknown enumerations and negative penalties
func (o *Options) Validate() error {
	switch o.SeasonalityMode {
	case "", SeasonalityModeAdditive, SeasonalityModeMultiplicative:
	default:
		return fmt.Errorf("%q, %w", o.SeasonalityMode, ErrUnknownSeasonalityMode)
	}
	switch o.GrowthType {
	case "", feature.GrowthLinear:
	default:
		return fmt.Errorf("%q, %w", o.GrowthType, ErrUnknownGrowthType)
	}
	if o.Regularization < 0 || o.ChangepointOptions.Regularization < 0 {
		return ErrNegativeRegularization
	}
	return nil
}

// Multiplicative reports whether the model is fit in log space
func (o *Options) Multiplicative() bool {
	return o.SeasonalityMode == SeasonalityModeMultiplicative
}

// Penalty returns the ridge penalty applied to a feature. Growth terms are never
// penalized.
func (o *Options) Penalty(f feature.Feature) float64 {
	switch f.Type() {
	case feature.FeatureTypeGrowth:
		return 0
	case feature.FeatureTypeChangepoint:
		return o.ChangepointOptions.Regularization
	}
	return o.Regularization
}

// GenerateFeatures builds every regressor for the time points given the training
// window of the model
func (o *Options) GenerateFeatures(t []time.Time, trainStart, trainEnd time.Time) *feature.Set {
	if o == nil {
		o = NewDefaultOptions()
	}

	feat := feature.NewSet()
	o.generateGrowthFeatures(t, trainStart, trainEnd, feat)
	feat.Update(o.ChangepointOptions.GenerateFeatures(t, trainStart, trainEnd))
	feat.Update(o.SeasonalityOptions.GenerateFeatures(t, trainEnd.Sub(trainStart)))
	feat.Update(o.EventOptions.GenerateFeatures(t))
	return feat
}

func (o *Options) generateGrowthFeatures(t []time.Time, trainStart, trainEnd time.Time, feat *feature.Set) {
	interceptFeat := feature.Intercept()
	feat.Set(interceptFeat, interceptFeat.Generate(t, trainStart, trainEnd))

	if o.GrowthType != feature.GrowthLinear || !trainEnd.After(trainStart) {
		return
	}
	linearFeat := feature.Linear()
	feat.Set(linearFeat, linearFeat.Generate(t, trainStart, trainEnd))
}

// TablePrint writes a human readable summary of the options
func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	mode := o.SeasonalityMode
	if mode == "" {
		mode = SeasonalityModeAdditive
	}
	growth := o.GrowthType
	if growth == "" {
		growth = "flat"
	}
	if _, err := fmt.Fprintf(w, "%s%sMode: %s    Growth: %s    Regularization: %.2g\n",
		prefix, util.IndentExpand(indent, indentGrowth), mode, growth, o.Regularization); err != nil {
		return err
	}
	if err := o.SeasonalityOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	if err := o.ChangepointOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	return o.EventOptions.TablePrint(w, prefix, indent, indentGrowth)
}

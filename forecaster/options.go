package forecaster

import (
	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
)

const (
	DefaultResidualWindow = 24
	DefaultResidualZscore = 1.96
)

// Options configures the series forecast and the uncertainty forecast which is fit on
// the rolling spread of the series residual
type Options struct {
	SeriesOptions   *options.Options `json:"series_options"`
	ResidualOptions *options.Options `json:"residual_options"`

	// ResidualWindow is the number of points in each rolling standard deviation of the
	// residual
	ResidualWindow int `json:"residual_window"`

	// ResidualZscore scales the rolling standard deviation into the half width of the
	// confidence band, e.g. 1.96 for a 95% band
	ResidualZscore float64 `json:"residual_zscore"`
}

// NewDefaultOptions returns additive series and residual options with daily and weekly
// seasonality
func NewDefaultOptions() *Options {
	return &Options{
		SeriesOptions:   options.NewDefaultOptions(),
		ResidualOptions: options.NewDefaultOptions(),
		ResidualWindow:  DefaultResidualWindow,
		ResidualZscore:  DefaultResidualZscore,
	}
}

func (o *Options) setDefaults() {
	if o.SeriesOptions == nil {
		o.SeriesOptions = options.NewDefaultOptions()
	}
	if o.ResidualOptions == nil {
		o.ResidualOptions = options.NewDefaultOptions()
	}
	if o.ResidualWindow <= 0 {
		o.ResidualWindow = DefaultResidualWindow
	}
	if o.ResidualZscore <= 0 {
		o.ResidualZscore = DefaultResidualZscore
	}
}

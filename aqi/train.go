package aqi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/aouyang1/go-aqi-forecaster/holiday"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
)

const (
	DefaultYearlyOrders = 10
	DefaultWeeklyOrders = 3
	DefaultDailyOrders  = 4
)

// TrainOptions configures the offline training of the model
type TrainOptions struct {
	// Country selects the holiday calendar, e.g. PK
	Country string

	// Location defines the local day of each holiday
	Location *time.Location

	// ResidualZscore scales the confidence band, 1.96 for 95%
	ResidualZscore float64
}

// NewModelOptions returns the forecaster configuration used for air quality: a
// multiplicative series model with yearly, weekly and daily seasonality, automatic
// changepoints and the given holidays, and an additive uncertainty model.
func NewModelOptions(events []options.Event, zscore float64) *forecaster.Options {
	series := options.NewDefaultOptions()
	series.SeasonalityMode = options.SeasonalityModeMultiplicative
	series.ChangepointOptions.Auto = true
	series.SeasonalityOptions.SeasonalityConfigs = []options.SeasonalityConfig{
		options.NewYearlySeasonalityConfig(DefaultYearlyOrders),
		options.NewWeeklySeasonalityConfig(DefaultWeeklyOrders),
		options.NewDailySeasonalityConfig(DefaultDailyOrders),
	}
	series.EventOptions.Events = events

	residual := options.NewDefaultOptions()

	return &forecaster.Options{
		SeriesOptions:   series,
		ResidualOptions: residual,
		ResidualWindow:  forecaster.DefaultResidualWindow,
		ResidualZscore:  zscore,
	}
}

// Train fits a forecaster to the modeling series. Holidays are expanded over the series
// and the longest forecast horizon after it so future occurrences are predicted too.
func Train(series *timedataset.TimeDataset, opt *TrainOptions) (*forecaster.Forecaster, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w, %w", ErrConfiguration, timedataset.ErrNoTrainingData)
	}
	if opt == nil {
		opt = &TrainOptions{}
	}
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}

	calendar, err := holiday.ForCountry(opt.Country)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrConfiguration, err)
	}
	start := timedataset.TimeSlice(series.T).StartTime()
	end := timedataset.TimeSlice(series.T).EndTime().Add(time.Duration(HorizonHours(MaxForecastDays)) * time.Hour)
	events := calendar.Events(start, end, loc)

	f, err := forecaster.New(NewModelOptions(events, opt.ResidualZscore))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize forecaster, %w", err)
	}
	if err := f.Fit(series.T, series.Y); err != nil {
		return nil, fmt.Errorf("unable to fit forecaster, %w", err)
	}

	slog.Info("trained model",
		"country", opt.Country,
		"holidays", len(events),
		"start", start,
		"end", timedataset.TimeSlice(series.T).EndTime(),
	)
	return f, nil
}

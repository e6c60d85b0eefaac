package options

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/util"
)

const (
	LabelSeasDaily  = "daily"
	LabelSeasWeekly = "weekly"
	LabelSeasYearly = "yearly"
)

// Seasonality options configures the number of seasonality components to fit for.
type SeasonalityOptions struct {
	SeasonalityConfigs []SeasonalityConfig `json:"seasonality_configs"`
}

func (s SeasonalityOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(s.SeasonalityConfigs) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%s%sName\tPeriod\tOrders\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%s%sSeasonality:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg)
	for _, seasCfg := range s.SeasonalityConfigs {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%d\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			seasCfg.Name, seasCfg.Period, seasCfg.Orders)
	}
	return tbl.Flush()
}

// NewDefaultSeasonalityOptions generates a default seasonality config with weekly and daily
// seasonal components
func NewDefaultSeasonalityOptions() SeasonalityOptions {
	return SeasonalityOptions{
		SeasonalityConfigs: []SeasonalityConfig{
			NewDailySeasonalityConfig(4),
			NewWeeklySeasonalityConfig(3),
		},
	}
}

// removeDuplicates drops invalid configs and keeps the highest order config of any
// repeated period
func (s *SeasonalityOptions) removeDuplicates() {
	optSeasConfigs := s.SeasonalityConfigs
	sort.Slice(optSeasConfigs, func(i, j int) bool {
		if optSeasConfigs[i].Period != optSeasConfigs[j].Period {
			return optSeasConfigs[i].Period < optSeasConfigs[j].Period
		}
		if optSeasConfigs[i].Orders != optSeasConfigs[j].Orders {
			return optSeasConfigs[i].Orders > optSeasConfigs[j].Orders
		}
		return optSeasConfigs[i].Name < optSeasConfigs[j].Name
	})

	validated := make([]SeasonalityConfig, 0, len(optSeasConfigs))
	var lastValidPeriod time.Duration
	for _, seasCfg := range optSeasConfigs {
		if seasCfg.Period > 0 && seasCfg.Period > lastValidPeriod && seasCfg.Name != "" && seasCfg.Orders > 0 {
			validated = append(validated, seasCfg)
			lastValidPeriod = seasCfg.Period
		}
	}
	s.SeasonalityConfigs = validated
}

// GenerateFeatures creates the sine and cosine terms of every configured order. A
// seasonality whose period is longer than the training window cannot be estimated and
// is skipped.
func (s *SeasonalityOptions) GenerateFeatures(t []time.Time, trainWindow time.Duration) *feature.Set {
	s.removeDuplicates()

	x := feature.NewSet()
	for _, seasCfg := range s.SeasonalityConfigs {
		if seasCfg.Period > trainWindow {
			slog.Debug("skipping seasonality longer than training window",
				"name", seasCfg.Name, "period", seasCfg.Period, "window", trainWindow)
			continue
		}
		for order := 1; order <= seasCfg.Orders; order++ {
			sinFeat := feature.NewSeasonality(seasCfg.Name, feature.FourierCompSin, order)
			cosFeat := feature.NewSeasonality(seasCfg.Name, feature.FourierCompCos, order)
			x.Set(sinFeat, sinFeat.Generate(t, seasCfg.Period))
			x.Set(cosFeat, cosFeat.Generate(t, seasCfg.Period))
		}
	}
	return x
}

// SeasonalityConfig represents a single seasonality configuration to model. This will generate
// Fourier series of the specified period and number of orders. E.g. a period of 24*time.Hour
// with 3 orders will create 6 Fourier series of order 1, 2, 3 and for the sine/cosine components
// where order 1 will have a period of 1 day and order 2 will have a period of 12 hours.
type SeasonalityConfig struct {
	Name   string        `json:"name"`
	Orders int           `json:"orders"`
	Period time.Duration `json:"period"`
}

// NewSeasonalityConfig creates a new seasonality config given a name, period and orders
func NewSeasonalityConfig(name string, period time.Duration, orders int) SeasonalityConfig {
	if orders < 0 {
		orders = 0
	}

	return SeasonalityConfig{
		Name:   name,
		Orders: orders,
		Period: period,
	}
}

// NewDailySeasonalityConfig creates a daily seasonality config given a specified number of orders
func NewDailySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasDaily, 24*time.Hour, orders)
}

// NewWeeklySeasonalityConfig creates a weekly seasonality config given a specified number of orders
func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasWeekly, 7*24*time.Hour, orders)
}

// NewYearlySeasonalityConfig creates a yearly seasonality config of 365.25 days
func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasYearly, time.Duration(365.25*24*float64(time.Hour)), orders)
}

package options

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/util"
)

const (
	DefaultAutoNumChangepoints       = 25
	DefaultChangepointRange          = 0.8
	DefaultChangepointRegularization = 0.01
)

// Changepoint describes a point in time that will change the ongoing trend
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// ChangepointOptions configures the changepoint fit to either use auto-detection
// by evenly placing N changepoints in the leading Range of the training window or a
// fixed list. Every changepoint is a slope change of the trend.
type ChangepointOptions struct {
	Changepoints        []Changepoint `json:"changepoints"`
	Auto                bool          `json:"auto"`
	AutoNumChangepoints int           `json:"auto_num_changepoints"`
	Range               float64       `json:"range"`
	Regularization      float64       `json:"regularization"`
}

func (c ChangepointOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(c.Changepoints) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%s%sName\tDatetime\t\n", prefix, util.IndentExpand(indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%s%sChangepoints:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg)
	for _, chpt := range c.Changepoints {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			chpt.Name, chpt.T.Format(time.RFC3339))
	}
	return tbl.Flush()
}

// NewDefaultChangepointOptions generates a set of default changepoint options
func NewDefaultChangepointOptions() ChangepointOptions {
	return ChangepointOptions{
		Auto:                false,
		AutoNumChangepoints: DefaultAutoNumChangepoints,
		Range:               DefaultChangepointRange,
		Regularization:      DefaultChangepointRegularization,
	}
}

// GenerateAutoChangepoints replaces the configured changepoints with N evenly spaced
// ones after the window start and within the leading Range of the window
func (c *ChangepointOptions) GenerateAutoChangepoints(trainStart, trainEnd time.Time) []Changepoint {
	if !c.Auto {
		return c.Changepoints
	}

	if c.AutoNumChangepoints <= 0 {
		c.AutoNumChangepoints = DefaultAutoNumChangepoints
	}
	if c.Range <= 0 || c.Range > 1 {
		c.Range = DefaultChangepointRange
	}
	n := c.AutoNumChangepoints

	// range is applied in millionths to keep the placement exact for round windows
	span := trainEnd.Sub(trainStart) / 1_000_000 * time.Duration(math.Round(c.Range*1_000_000))
	step := span / time.Duration(n+1)
	if step <= 0 {
		c.Changepoints = nil
		return nil
	}

	chpts := make([]Changepoint, 0, n)
	for i := 1; i <= n; i++ {
		chpts = append(chpts, NewChangepoint(fmt.Sprintf("auto_%02d", i), trainStart.Add(step*time.Duration(i))))
	}

	c.Changepoints = chpts
	return chpts
}

// GenerateFeatures creates a slope feature per changepoint within the training window
func (c ChangepointOptions) GenerateFeatures(t []time.Time, trainStart, trainEnd time.Time) *feature.Set {
	feat := feature.NewSet()
	window := trainEnd.Sub(trainStart)
	for i, chpt := range c.Changepoints {
		// changepoints outside of the training window would produce empty columns
		if !chpt.T.After(trainStart) || !chpt.T.Before(trainEnd) {
			continue
		}
		name := chpt.Name
		if name == "" {
			name = fmt.Sprintf("%02d", i)
		}
		chptFeat := feature.NewChangepoint(name, feature.ChangepointCompSlope)
		feat.Set(chptFeat, chptFeat.Generate(t, chpt.T, window))
	}
	return feat
}

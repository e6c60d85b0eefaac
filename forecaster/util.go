package forecaster

import (
	"math"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const bandStack = "confidence-band"

// NewTimeLine creates an empty line chart with a time x-axis
func NewTimeLine(title, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	return line
}

// TimeLineData pairs each time with its value dropping NaNs
func TimeLineData(t []time.Time, y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for i := 0; i < len(y) && i < len(t); i++ {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		data = append(data, opts.LineData{Value: []interface{}{t[i].UnixMilli(), y[i]}})
	}
	return data
}

// AddBand shades the area between lower and upper by stacking a transparent lower
// series with the band width
func AddBand(line *charts.Line, name string, t []time.Time, lower, upper []float64, color string) *charts.Line {
	width := make([]float64, len(upper))
	for i := range upper {
		width[i] = upper[i] - lower[i]
	}

	line.AddSeries(name+" Lower", TimeLineData(t, lower),
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, Symbol: "none"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "rgba(0,0,0,0)"}),
	)
	line.AddSeries(name, TimeLineData(t, width),
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, Symbol: "none"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "rgba(0,0,0,0)"}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: color}),
	)
	return line
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := NewTimeLine(title, "", "")
	for i, series := range seriesName {
		if i >= len(y) {
			break
		}
		line.AddSeries(series, TimeLineData(t, y[i]),
			charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
		)
	}
	return line
}

// LineForecaster generates an echart line chart of the training data along with the fit and
// forecasted values and their confidence band
func LineForecaster(trainingData *timedataset.TimeDataset, fitRes, forecastRes *Results) *charts.Line {
	line := NewTimeLine("Forecast Fit", "", "")

	t := make([]time.Time, 0, fitRes.Len()+forecastRes.Len())
	forecast := make([]float64, 0, cap(t))
	upper := make([]float64, 0, cap(t))
	lower := make([]float64, 0, cap(t))
	for _, res := range []*Results{fitRes, forecastRes} {
		if res == nil {
			continue
		}
		t = append(t, res.T...)
		forecast = append(forecast, res.Forecast...)
		upper = append(upper, res.Upper...)
		lower = append(lower, res.Lower...)
	}

	line.AddSeries("Actual", TimeLineData(trainingData.T, trainingData.Y),
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
	)
	line.AddSeries("Forecast", TimeLineData(t, forecast),
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
	)
	return AddBand(line, "Confidence", t, lower, upper, "rgba(255,127,0,0.2)")
}

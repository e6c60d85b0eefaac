package aqi

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	ExportTimeLayout = "2006-01-02 15:04:05"

	historicalColor = "#1f77b4"
	forecastColor   = "#ff7f0e"
	bandColor       = "rgba(255,127,0,0.2)"
)

var exportHeader = []string{"ds", "yhat", "yhat_lower", "yhat_upper"}

// AssembleOptions sets the labels of the presentation and whether the component
// breakdown is built
type AssembleOptions struct {
	City           string
	ShowComponents bool
}

// Trace is a named series of the chart
type Trace struct {
	Name string      `json:"name"`
	T    []time.Time `json:"t"`
	Y    []float64   `json:"y"`
}

// Chart holds one historical trace and the forecast with its bounds. The area between
// Lower and Upper is shaded as the confidence band.
type Chart struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	XTitle     string `json:"x_title"`
	YTitle     string `json:"y_title"`
	Historical Trace  `json:"historical"`
	Forecast   Trace  `json:"forecast"`
	Upper      Trace  `json:"upper"`
	Lower      Trace  `json:"lower"`
}

// ComponentsChart is the decomposition of the forecast rows
type ComponentsChart struct {
	Title       string      `json:"title"`
	T           []time.Time `json:"t"`
	Trend       []float64   `json:"trend"`
	Seasonality []float64   `json:"seasonality"`
	Holidays    []float64   `json:"holidays"`
}

// Export is the forward looking tail of the forecast
type Export struct {
	Filename string          `json:"filename"`
	Rows     []ForecastPoint `json:"rows"`
}

// Presentation is everything needed to render a forecast request
type Presentation struct {
	City         string           `json:"city"`
	ForecastDays int              `json:"forecast_days"`
	Latest       float64          `json:"latest"`
	Status       Category         `json:"status"`
	Timeline     []TimelinePoint  `json:"timeline"`
	Chart        *Chart           `json:"chart"`
	Components   *ComponentsChart `json:"components,omitempty"`
	Export       *Export          `json:"export"`
}

// ExportFilename names the export of a horizon, e.g. lahore_aqi_forecast_30days.csv
func ExportFilename(city string, days int) string {
	name := strings.ToLower(strings.Join(strings.Fields(city), "_"))
	if name == "" {
		name = "city"
	}
	return fmt.Sprintf("%s_aqi_forecast_%ddays.csv", name, days)
}

// Assemble builds the chart and export payloads from a merged timeline. The status is
// that of the last historical row. The export holds the last forecastDays*24 forecast
// rows.
func Assemble(timeline []TimelinePoint, status Category, forecastDays int, opt AssembleOptions) (*Presentation, error) {
	if err := ValidateForecastDays(forecastDays); err != nil {
		return nil, err
	}
	horizonHours := HorizonHours(forecastDays)

	historical, forecast := Split(timeline)
	if len(forecast) < horizonHours {
		return nil, fmt.Errorf("got %d forecast rows for %d hours, %w", len(forecast), horizonHours, ErrIncompleteForecast)
	}

	p := &Presentation{
		City:         opt.City,
		ForecastDays: forecastDays,
		Status:       status,
		Timeline:     timeline,
	}
	if len(historical) > 0 {
		p.Latest = historical[len(historical)-1].Value
	}

	chart := &Chart{
		Title:    fmt.Sprintf("%s AQI – Historical + %d-Day Forecast", opt.City, forecastDays),
		Subtitle: fmt.Sprintf("Latest Recorded AQI %d • %s", int(p.Latest), status),
		XTitle:   "Date",
		YTitle:   "AQI",
		Historical: Trace{
			Name: "Historical AQI",
			T:    make([]time.Time, 0, len(historical)),
			Y:    make([]float64, 0, len(historical)),
		},
		Forecast: Trace{Name: "Forecast"},
		Upper:    Trace{Name: "Upper"},
		Lower:    Trace{Name: "95% Confidence"},
	}
	for _, h := range historical {
		chart.Historical.T = append(chart.Historical.T, h.DS)
		chart.Historical.Y = append(chart.Historical.Y, h.Value)
	}

	t := make([]time.Time, len(forecast))
	yhat := make([]float64, len(forecast))
	upper := make([]float64, len(forecast))
	lower := make([]float64, len(forecast))
	for i, f := range forecast {
		t[i] = f.DS
		yhat[i] = f.Value
		upper[i] = deref(f.Upper, f.Value)
		lower[i] = deref(f.Lower, f.Value)
	}
	chart.Forecast.T, chart.Forecast.Y = t, yhat
	chart.Upper.T, chart.Upper.Y = t, upper
	chart.Lower.T, chart.Lower.Y = t, lower
	p.Chart = chart

	if opt.ShowComponents {
		comp := &ComponentsChart{
			Title:       "Seasonality, Trends & Holiday Effects",
			T:           t,
			Trend:       make([]float64, len(forecast)),
			Seasonality: make([]float64, len(forecast)),
			Holidays:    make([]float64, len(forecast)),
		}
		for i, f := range forecast {
			if f.Components == nil {
				continue
			}
			comp.Trend[i] = f.Components.Trend
			comp.Seasonality[i] = f.Components.Seasonality
			comp.Holidays[i] = f.Components.Holidays
		}
		p.Components = comp
	}

	tail := forecast[len(forecast)-horizonHours:]
	export := &Export{
		Filename: ExportFilename(opt.City, forecastDays),
		Rows:     make([]ForecastPoint, len(tail)),
	}
	for i, f := range tail {
		export.Rows[i] = ForecastPoint{
			DS:        f.DS,
			Yhat:      f.Value,
			YhatLower: deref(f.Lower, f.Value),
			YhatUpper: deref(f.Upper, f.Value),
		}
		if f.Components != nil {
			export.Rows[i].Components = *f.Components
		}
	}
	p.Export = export
	return p, nil
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Line builds the echarts line chart with the historical series, the forecast and the
// shaded confidence band
func (c *Chart) Line() *charts.Line {
	line := forecaster.NewTimeLine(c.Title, c.XTitle, c.YTitle)
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: c.Title, Subtitle: c.Subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.Title, Width: "100%", Height: "600px"}),
	)
	line.AddSeries(c.Historical.Name, forecaster.TimeLineData(c.Historical.T, c.Historical.Y),
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: historicalColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: historicalColor}),
	)
	line.AddSeries(c.Forecast.Name, forecaster.TimeLineData(c.Forecast.T, c.Forecast.Y),
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: forecastColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: forecastColor}),
	)
	return forecaster.AddBand(line, c.Lower.Name, c.Lower.T, c.Lower.Y, c.Upper.Y, bandColor)
}

// Render writes the chart as a standalone html page
func (c *Chart) Render(w io.Writer) error {
	return c.Line().Render(w)
}

// Line builds a multi-line chart of the components
func (c *ComponentsChart) Line() *charts.Line {
	return forecaster.LineTSeries(
		c.Title,
		[]string{"Trend", "Seasonality", "Holidays"},
		c.T,
		[][]float64{c.Trend, c.Seasonality, c.Holidays},
	)
}

// Render writes the main chart followed by the components chart when requested as a
// single html page
func (p *Presentation) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = p.Chart.Title
	page.AddCharts(p.Chart.Line())
	if p.Components != nil {
		page.AddCharts(p.Components.Line())
	}
	return page.Render(w)
}

// WriteCSV writes the export rows with a ds,yhat,yhat_lower,yhat_upper header
func (e *Export) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("unable to write export header, %w", err)
	}
	for _, r := range e.Rows {
		record := []string{
			r.DS.Format(ExportTimeLayout),
			strconv.FormatFloat(r.Yhat, 'f', -1, 64),
			strconv.FormatFloat(r.YhatLower, 'f', -1, 64),
			strconv.FormatFloat(r.YhatUpper, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write export row, %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

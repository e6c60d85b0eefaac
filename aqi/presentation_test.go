package aqi

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, historyLen, days int, last float64, showComponents bool) (*Presentation, []ForecastPoint) {
	t.Helper()
	history := hourlyHistory(historyLen, last)
	points, err := GenerateForecast(newFakeModel(history), history.T[history.Len()-1], HorizonHours(days))
	require.NoError(t, err)

	p, err := Assemble(Merge(history, points), Classify(last), days, AssembleOptions{
		City:           "Lahore",
		ShowComponents: showComponents,
	})
	require.NoError(t, err)
	return p, points
}

func TestAssembleHazardousScenario(t *testing.T) {
	p, points := assemble(t, 96, 30, 215, false)

	assert.Equal(t, Hazardous, p.Status)
	assert.Equal(t, 215.0, p.Latest)
	assert.Equal(t, 30, p.ForecastDays)
	assert.Len(t, p.Timeline, 96+96+720)

	require.Len(t, p.Export.Rows, 720)
	tail := points[len(points)-720:]
	last := hourlyHistory(96, 215).T[95]
	for i, row := range p.Export.Rows {
		assert.Equal(t, tail[i].DS, row.DS)
		assert.Equal(t, last.Add(time.Duration(i+1)*time.Hour), row.DS)
		assert.Equal(t, tail[i].Yhat, row.Yhat)
		assert.Equal(t, tail[i].YhatLower, row.YhatLower)
		assert.Equal(t, tail[i].YhatUpper, row.YhatUpper)
	}
	assert.Equal(t, "lahore_aqi_forecast_30days.csv", p.Export.Filename)
	assert.Nil(t, p.Components)
}

func TestAssembleExportRows(t *testing.T) {
	testData := map[string]struct {
		days     int
		expected int
	}{
		"one day":    {days: 1, expected: 24},
		"seven days": {days: 7, expected: 168},
		"sixty days": {days: 60, expected: 1440},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, _ := assemble(t, 48, td.days, 40, false)
			assert.Len(t, p.Export.Rows, td.expected)
			assert.Equal(t, Good, p.Status)

			var buf bytes.Buffer
			require.NoError(t, p.Export.WriteCSV(&buf))
			records, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, td.expected+1)
			assert.Equal(t, []string{"ds", "yhat", "yhat_lower", "yhat_upper"}, records[0])
		})
	}
}

func TestAssembleRejectsDays(t *testing.T) {
	history := hourlyHistory(24, 100)
	points, err := GenerateForecast(newFakeModel(history), history.T[23], 24)
	require.NoError(t, err)
	timeline := Merge(history, points)

	for _, days := range []int{0, 61, -1} {
		_, err := Assemble(timeline, Moderate, days, AssembleOptions{City: "Lahore"})
		assert.ErrorIs(t, err, ErrConfiguration)
	}

	// 48 forecast rows cannot fill a three day export
	_, err = Assemble(timeline, Moderate, 3, AssembleOptions{City: "Lahore"})
	assert.ErrorIs(t, err, ErrIncompleteForecast)
}

func TestAssembleChart(t *testing.T) {
	p, points := assemble(t, 48, 2, 130, true)

	c := p.Chart
	assert.Equal(t, "Lahore AQI – Historical + 2-Day Forecast", c.Title)
	assert.Contains(t, c.Subtitle, "130")
	assert.Contains(t, c.Subtitle, "Unhealthy for Sensitive")
	assert.Equal(t, "Date", c.XTitle)
	assert.Equal(t, "AQI", c.YTitle)
	assert.Len(t, c.Historical.Y, 48)
	assert.Len(t, c.Forecast.Y, len(points))
	assert.Len(t, c.Upper.Y, len(points))
	assert.Len(t, c.Lower.Y, len(points))
	assert.Equal(t, "95% Confidence", c.Lower.Name)
	for i := range c.Forecast.Y {
		assert.LessOrEqual(t, c.Lower.Y[i], c.Forecast.Y[i])
		assert.LessOrEqual(t, c.Forecast.Y[i], c.Upper.Y[i])
	}

	require.NotNil(t, p.Components)
	assert.Len(t, p.Components.Trend, len(points))
	assert.Equal(t, 100.0, p.Components.Trend[0])

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "Historical AQI")
	assert.Contains(t, html, "95% Confidence")
	assert.Contains(t, html, "Seasonality, Trends")

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.NotContains(t, buf.String(), "Seasonality, Trends")
}

func TestExportWriteCSV(t *testing.T) {
	e := &Export{
		Rows: []ForecastPoint{
			{DS: time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC), Yhat: 120.5, YhatLower: 100, YhatUpper: 141.25},
			{DS: time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), Yhat: 99, YhatLower: 80.125, YhatUpper: 110},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, e.WriteCSV(&buf))

	expected := strings.Join([]string{
		"ds,yhat,yhat_lower,yhat_upper",
		"2025-01-01 05:00:00,120.5,100,141.25",
		"2025-01-01 06:00:00,99,80.125,110",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestExportFilename(t *testing.T) {
	testData := map[string]struct {
		city     string
		days     int
		expected string
	}{
		"lahore":     {city: "Lahore", days: 30, expected: "lahore_aqi_forecast_30days.csv"},
		"two words":  {city: " Dera Ghazi  Khan ", days: 1, expected: "dera_ghazi_khan_aqi_forecast_1days.csv"},
		"empty city": {city: "", days: 60, expected: "city_aqi_forecast_60days.csv"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, ExportFilename(td.city, td.days))
		})
	}
}

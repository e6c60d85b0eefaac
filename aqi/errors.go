// Package aqi assembles air quality forecasts for presentation. It drives a trained
// forecaster over the future horizon, merges the forecast with the observed history,
// classifies the latest reading, and renders the chart and export payloads.
package aqi

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is fatal to a run and caused by the inputs rather than the model,
	// e.g. no usable readings or an out of range horizon
	ErrConfiguration = errors.New("configuration error")

	// ErrModelUnavailable marks a missing, corrupt or unloaded model artifact
	ErrModelUnavailable = errors.New("model unavailable")

	ErrInvalidForecastDays = fmt.Errorf("invalid forecast days, %w", ErrConfiguration)
	ErrIncompleteForecast  = errors.New("forecast has fewer rows than the horizon")
)

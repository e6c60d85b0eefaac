package aqi

import (
	"context"
	"fmt"
	"log/slog"
)

// Request is a single forecast and render cycle
type Request struct {
	ForecastDays   int
	ShowComponents bool
}

// Pipeline runs forecast requests against the shared resources
type Pipeline struct {
	resources *Resources
	city      string
	logger    *slog.Logger
}

func NewPipeline(resources *Resources, city string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		resources: resources,
		city:      city,
		logger:    logger.With("component", "aqi.pipeline"),
	}
}

// City returns the display name of the forecasted city
func (p *Pipeline) City() string {
	return p.city
}

// Run validates the request, forecasts the horizon after the last historical hour,
// merges it with the history and assembles the presentation. Any failure aborts the
// run without a partial result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Presentation, error) {
	if err := ValidateForecastDays(req.ForecastDays); err != nil {
		return nil, err
	}

	history, err := p.resources.History(ctx)
	if err != nil {
		return nil, err
	}
	model, err := p.resources.Model(ctx)
	if err != nil {
		return nil, err
	}

	last, latest, ok := history.Last()
	if !ok {
		return nil, fmt.Errorf("empty history, %w", ErrConfiguration)
	}
	status := Classify(latest)

	forecast, err := GenerateForecast(model, last, HorizonHours(req.ForecastDays))
	if err != nil {
		return nil, err
	}

	timeline := Merge(history, forecast)
	presentation, err := Assemble(timeline, status, req.ForecastDays, AssembleOptions{
		City:           p.city,
		ShowComponents: req.ShowComponents,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("assembled forecast",
		"forecast_days", req.ForecastDays,
		"latest", latest,
		"status", status.String(),
		"timeline_rows", len(timeline),
		"export_rows", len(presentation.Export.Rows),
	)
	return presentation, nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	var (
		days       int
		components bool
		outDir     string
		htmlPath   string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast the coming days and export the hourly predictions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = cfg.Forecast.DefaultDays
			}
			if !cmd.Flags().Changed("components") {
				components = cfg.Forecast.ShowComponents
			}

			pipeline, _, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}
			p, err := pipeline.Run(cmd.Context(), aqi.Request{
				ForecastDays:   days,
				ShowComponents: components,
			})
			if err != nil {
				return err
			}

			printStatus(cmd.OutOrStdout(), p)

			exportPath := filepath.Join(outDir, p.Export.Filename)
			if err := writeFile(exportPath, p.Export.WriteCSV); err != nil {
				return err
			}
			slog.Info("wrote export", "path", exportPath, "rows", len(p.Export.Rows))

			if htmlPath != "" {
				if err := writeFile(htmlPath, p.Render); err != nil {
					return err
				}
				slog.Info("wrote chart", "path", htmlPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", aqi.DefaultForecastDays, fmt.Sprintf("forecast horizon in days (%d-%d)", aqi.MinForecastDays, aqi.MaxForecastDays))
	cmd.Flags().BoolVar(&components, "components", true, "include the trend, seasonality and holiday breakdown")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory of the csv export")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write the rendered chart to this path")
	return cmd
}

// printStatus writes the latest reading and its category in the category color
func printStatus(w io.Writer, p *aqi.Presentation) {
	label := lipgloss.NewStyle().Bold(true)
	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(p.Status.Color()))

	fmt.Fprintln(w, label.Render(p.Chart.Title))
	fmt.Fprintf(w, "Latest Recorded AQI %d %s\n", int(p.Latest), badge.Render(p.Status.String()))
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create %s, %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return f.Close()
}

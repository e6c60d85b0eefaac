package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/aouyang1/go-aqi-forecaster/ingest"
	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const trainStages = 4

func trainCmd() *cobra.Command {
	var (
		dataPath    string
		previewPath string
		profileMode string
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the forecaster on the historical readings and store the model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch profileMode {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			default:
				return fmt.Errorf("unknown profile mode %q, %w", profileMode, aqi.ErrConfiguration)
			}

			ctx := cmd.Context()
			src, err := cfg.HistorySource()
			if err != nil {
				return err
			}
			if dataPath != "" {
				src.Path = dataPath
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			bar := newStageBar(quiet)
			advance := func(desc string) {
				bar.Describe(desc)
				if err := bar.Add(1); err != nil {
					slog.Warn("unable to update progress bar", "error", err)
				}
			}

			bar.Describe("reading " + src.Path)
			readings, err := ingest.ReadFile(src.Path, src.Ingest)
			if err != nil {
				return fmt.Errorf("%w, %w", aqi.ErrConfiguration, err)
			}
			advance("preparing series")

			series, err := aqi.LoadHistory(readings, src.Resampler, src.OutlierPercentile)
			if err != nil {
				return err
			}
			advance("fitting model")

			f, err := aqi.Train(series, &aqi.TrainOptions{
				Country:        cfg.Country,
				Location:       loc,
				ResidualZscore: cfg.Forecast.ConfidenceZscore,
			})
			if err != nil {
				return err
			}
			advance("saving model")

			m, err := f.Model()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := m.Save(&buf); err != nil {
				return err
			}
			s, err := cfg.ArtifactStore(ctx, slog.Default())
			if err != nil {
				return err
			}
			if err := s.Put(ctx, cfg.ModelKey(), buf.Bytes()); err != nil {
				return fmt.Errorf("unable to store model, %w", err)
			}
			advance("done")
			if err := bar.Finish(); err != nil {
				slog.Warn("unable to finish progress bar", "error", err)
			}

			if previewPath != "" {
				if err := writePreview(f, previewPath); err != nil {
					return err
				}
			}

			slog.Info("stored model",
				"store", cfg.Model.Store,
				"key", cfg.ModelKey(),
				"points", series.Len(),
				"mape", f.Scores().MAPE,
				"r2", f.Scores().R2,
			)
			if quiet {
				return nil
			}
			return m.TablePrint(cmd.OutOrStdout(), "", "  ")
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "historical readings csv, optionally gzipped (overrides data.path)")
	cmd.Flags().StringVar(&previewPath, "preview", "", "write an html page of the fit to this path")
	cmd.Flags().StringVar(&profileMode, "profile", "", "profile the run (cpu, mem)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar and coefficient table")
	return cmd
}

func newStageBar(quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(trainStages)
	}
	return progressbar.NewOptions(trainStages,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func writePreview(f *forecaster.Forecaster, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create preview, %w", err)
	}
	defer out.Close()

	if err := f.PlotFit(out, nil); err != nil {
		return fmt.Errorf("unable to plot fit, %w", err)
	}
	slog.Info("wrote fit preview", "path", path)
	return nil
}

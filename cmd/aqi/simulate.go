package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/ingest"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
)

func simulateCmd() *cobra.Command {
	var (
		outPath string
		start   string
		days    int
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic hourly readings file for demos and tests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			t0, err := time.ParseInLocation(time.DateOnly, start, loc)
			if err != nil {
				return fmt.Errorf("invalid start date %q, %w", start, err)
			}
			if days < 1 {
				return fmt.Errorf("days must be positive, got %d", days)
			}

			series := timedataset.SimulateAQI(t0, days*24, seed)
			if err := writeFile(outPath, func(w io.Writer) error {
				return writeReadings(w, series, strings.HasSuffix(outPath, ".gz"))
			}); err != nil {
				return err
			}
			slog.Info("wrote simulated readings", "path", outPath, "points", series.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "simulated_aqi.csv", "output csv, gzipped when ending in .gz")
	cmd.Flags().StringVar(&start, "start", "2023-01-01", "first day of the readings")
	cmd.Flags().IntVar(&days, "days", 365, "number of days to simulate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "noise seed")
	return cmd
}

// writeReadings writes the series with the configured column names and timestamp layout
func writeReadings(w io.Writer, series *timedataset.TimeDataset, compress bool) error {
	if compress {
		gz := gzip.NewWriter(w)
		if err := writeReadings(gz, series, false); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}

	tsCol, valCol := cfg.Data.TimestampColumn, cfg.Data.ValueColumn
	if tsCol == "" || valCol == "" {
		tsCol, valCol = ingest.DefaultTimestampColumn, ingest.DefaultValueColumn
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{tsCol, valCol}); err != nil {
		return err
	}
	for i := 0; i < series.Len(); i++ {
		record := []string{
			series.T[i].Format(cfg.Data.TimestampLayout),
			strconv.FormatFloat(series.Y[i], 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package timedataset

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/stats"
)

// DefaultOutlierPercentile is the quantile above which hourly values are treated as
// sensor spikes and excluded from modeling
const DefaultOutlierPercentile = 0.99

// Prepare builds the modeling series from an hourly series by dropping every point
// strictly above the given percentile of the hourly values. Order is preserved and
// the input is left untouched.
func Prepare(hourly *TimeDataset, percentile float64) (*TimeDataset, error) {
	if hourly.Len() == 0 {
		return nil, ErrNoTrainingData
	}

	threshold, err := stats.Percentile(hourly.Y, percentile)
	if err != nil {
		return nil, fmt.Errorf("unable to compute outlier threshold, %w", err)
	}

	t := make([]time.Time, 0, len(hourly.T))
	y := make([]float64, 0, len(hourly.Y))
	for i, val := range hourly.Y {
		if val > threshold {
			continue
		}
		t = append(t, hourly.T[i])
		y = append(y, val)
	}

	slog.Debug("trimmed outliers from hourly series",
		"percentile", percentile,
		"threshold", threshold,
		"kept", len(y),
		"dropped", len(hourly.Y)-len(y),
	)
	return &TimeDataset{T: t, Y: y}, nil
}

// Package stats contains the whole-series statistics used while preparing data and
// estimating forecast uncertainty.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmptySeries       = errors.New("no finite values in series")
	ErrInvalidPercentile = errors.New("percentile must be within (0, 1]")
	ErrInvalidWindow     = errors.New("window must be at least 2 and no larger than the series")
)

// Percentile returns the p-th quantile (0 < p <= 1) of the finite values of y using
// linear interpolation of the empirical distribution. The input is not modified.
func Percentile(y []float64, p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return 0, fmt.Errorf("got %.4f, %w", p, ErrInvalidPercentile)
	}

	sorted := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sorted = append(sorted, v)
	}
	if len(sorted) == 0 {
		return 0, ErrEmptySeries
	}
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil), nil
}

// RollingStdDev computes the standard deviation over every full window of y. The result
// has len(y)-window+1 values where value i covers y[i:i+window].
func RollingStdDev(y []float64, window int) ([]float64, error) {
	if window < 2 || window > len(y) {
		return nil, fmt.Errorf("window of %d for %d values, %w", window, len(y), ErrInvalidWindow)
	}

	numWindows := len(y) - window + 1
	out := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		out[i] = stat.StdDev(y[i:i+window], nil)
	}
	return out, nil
}

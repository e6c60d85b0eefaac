package timedataset

import (
	"testing"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	y := make([]float64, 100)
	for i := range y {
		y[i] = float64(i + 1)
	}
	hourly := &TimeDataset{T: GenerateT(start, 100, time.Hour), Y: y}

	res, err := Prepare(hourly, DefaultOutlierPercentile)
	require.NoError(t, err)

	// 99th percentile of 1..100 is 99 so only 100 is dropped
	require.Equal(t, 99, res.Len())
	assert.Equal(t, 99.0, res.Y[res.Len()-1])
	assert.Equal(t, hourly.T[:99], res.T)

	// input untouched
	assert.Equal(t, 100, hourly.Len())
	assert.Equal(t, 100.0, hourly.Y[99])
}

func TestPrepareKeepsOrderAroundSpikes(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 200
	y := GenerateConstY(n, 100)
	y[10] = 5000
	y[150] = 4000

	hourly := &TimeDataset{T: GenerateT(start, n, time.Hour), Y: y}
	res, err := Prepare(hourly, DefaultOutlierPercentile)
	require.NoError(t, err)
	require.Equal(t, n-2, res.Len())

	for i := 1; i < res.Len(); i++ {
		assert.True(t, res.T[i].After(res.T[i-1]))
	}
	for _, v := range res.Y {
		assert.Equal(t, 100.0, v)
	}
}

func TestPrepareErrors(t *testing.T) {
	_, err := Prepare(nil, DefaultOutlierPercentile)
	assert.ErrorIs(t, err, ErrNoTrainingData)

	hourly := &TimeDataset{
		T: GenerateT(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 2, time.Hour),
		Y: []float64{1, 2},
	}
	_, err = Prepare(hourly, 0)
	assert.ErrorIs(t, err, stats.ErrInvalidPercentile)
}

func TestPrepareSecondPassRetainsNinetyNinePercentLessOneRow(t *testing.T) {
	// realistic hourly AQI readings are integers with many repeated values
	sim := SimulateAQI(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 24*90, 3)
	for i, v := range sim.Y {
		sim.Y[i] = float64(int(v))
	}

	first, err := Prepare(sim, DefaultOutlierPercentile)
	require.NoError(t, err)

	second, err := Prepare(first, DefaultOutlierPercentile)
	require.NoError(t, err)

	// the interpolated threshold sits between two sorted values so one row beyond the
	// 99% share can fall above it
	// ceil(0.99*n) - 1 in integer arithmetic
	minKept := first.Len() - first.Len()/100 - 1
	assert.LessOrEqual(t, second.Len(), first.Len())
	assert.GreaterOrEqual(t, second.Len(), minKept)
}

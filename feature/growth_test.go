package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGrowthString(t *testing.T) {
	assert.Equal(t, "growth_intercept", Intercept().String())
	assert.Equal(t, "growth_linear", Linear().String())
}

func TestGrowthGenerate(t *testing.T) {
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	tSeries := []time.Time{
		start,
		start.Add(2 * time.Hour),
		end,
		end.Add(2 * time.Hour),
	}

	testData := map[string]struct {
		feat     *Growth
		start    time.Time
		end      time.Time
		expected []float64
	}{
		"intercept": {
			feat:     Intercept(),
			start:    start,
			end:      end,
			expected: []float64{1, 1, 1, 1},
		},
		"linear": {
			feat:     Linear(),
			start:    start,
			end:      end,
			expected: []float64{0, 0.5, 1, 1.5},
		},
		"linear single point window": {
			feat:     Linear(),
			start:    start,
			end:      start,
			expected: []float64{0, 0, 0, 0},
		},
		"unknown": {
			feat:     NewGrowth("quadratic"),
			start:    start,
			end:      end,
			expected: []float64{0, 0, 0, 0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.feat.Generate(tSeries, td.start, td.end)
			assert.InDeltaSlice(t, td.expected, res, 1e-9)
		})
	}
}

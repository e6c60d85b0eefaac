package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n points spaced by interval with the first point at start
func GenerateT(start time.Time, n int, interval time.Duration) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a helper for composing synthetic observations
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Clip bounds every value into [lower, upper]
func (s Series) Clip(lower, upper float64) Series {
	for i, v := range s {
		s[i] = math.Min(math.Max(v, lower), upper)
	}
	return s
}

// SetConst assigns val to every point within [start, end)
func (s Series) SetConst(t []time.Time, val float64, start, end time.Time) Series {
	for i := range s {
		if !t[i].Before(start) && t[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, n)
	for i := range y {
		y[i] = val
	}
	return Series(y)
}

// GenerateWaveY produces a sine wave of the given amplitude completing `order` cycles
// every period
func GenerateWaveY(t []time.Time, amp float64, period time.Duration, order, phase float64) Series {
	y := make([]float64, len(t))
	periodSec := period.Seconds()
	for i := range t {
		y[i] = amp * math.Sin(2.0*math.Pi*order/periodSec*float64(t[i].Unix())+phase)
	}
	return Series(y)
}

// GenerateNoise produces gaussian noise with the given standard deviation from a
// deterministic seed
func GenerateNoise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	y := make([]float64, n)
	for i := range y {
		y[i] = r.NormFloat64() * scale
	}
	return Series(y)
}

// GenerateChange produces a piecewise linear series which is zero before chpt and
// bias+slope*hours after it
func GenerateChange(t []time.Time, chpt time.Time, bias, slope float64) Series {
	y := make([]float64, len(t))
	for i := range t {
		if !t[i].Before(chpt) {
			y[i] = bias + slope*t[i].Sub(chpt).Hours()
		}
	}
	return Series(y)
}

// SimulateAQI builds an hourly air quality series with a winter peak, a daily cycle
// with an evening high, a weekday bump and noise. Values never drop below 1.
func SimulateAQI(start time.Time, n int, seed uint64) *TimeDataset {
	t := GenerateT(start, n, time.Hour)
	y := GenerateConstY(n, 150).
		Add(GenerateWaveY(t, 80, 365*24*time.Hour, 1, math.Pi/2)).
		Add(GenerateWaveY(t, 30, 24*time.Hour, 1, 0)).
		Add(GenerateNoise(n, 10, seed))

	for i := range t {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
		default:
			y[i] += 10
		}
	}
	y.Clip(1, 999)

	return &TimeDataset{T: t, Y: y}
}

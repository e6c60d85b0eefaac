package timedataset

import (
	"math"
	"time"
)

// TimeSlice is a sorted slice of time points
type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common spacing between consecutive points. Ties are
// broken towards the smaller spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)
	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Extend returns n points spaced freq apart starting one step after the end of the slice
func (t TimeSlice) Extend(n int, freq time.Duration) []time.Time {
	if n <= 0 {
		return nil
	}
	end := t.EndTime()
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = end.Add(time.Duration(i+1) * freq)
	}
	return out
}

// Gaps returns the indices i where t[i]-t[i-1] differs from freq
func (t TimeSlice) Gaps(freq time.Duration) []int {
	var gaps []int
	for i := 1; i < len(t); i++ {
		if t[i].Sub(t[i-1]) != freq {
			gaps = append(gaps, i)
		}
	}
	return gaps
}

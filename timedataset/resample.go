package timedataset

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultTimestampLayout is day/month/year hour:minute as exported by the monitoring stations
const DefaultTimestampLayout = "02/01/2006 15:04"

var ErrNoValidReadings = errors.New("no valid readings after dropping malformed rows")

// RawReading is one unparsed row of the input dataset
type RawReading struct {
	Timestamp string
	Value     string
}

// Resampler converts raw readings into a gap free hourly series
type Resampler struct {
	// Layout is the time.Parse layout of the timestamp column
	Layout string

	// Location is used for timestamps without zone information and defines the hour
	// boundaries of each bucket
	Location *time.Location
}

// NewResampler returns a Resampler with the station layout and UTC when the arguments
// are left empty.
func NewResampler(layout string, loc *time.Location) *Resampler {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resampler{
		Layout:   layout,
		Location: loc,
	}
}

type hourBucket struct {
	sum float64
	cnt int
}

// Resample parses every reading, silently dropping rows whose timestamp or value cannot
// be read, averages readings falling within the same clock hour and forward fills any
// hour without readings. The result starts at the hour of the earliest valid reading
// and ends at the hour of the latest one.
func (r *Resampler) Resample(readings []RawReading) (*TimeDataset, error) {
	layout := r.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[int64]*hourBucket)
	var first, last time.Time
	var dropped int
	for _, reading := range readings {
		ts, err := time.ParseInLocation(layout, strings.TrimSpace(reading.Timestamp), loc)
		if err != nil {
			dropped++
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(reading.Value), 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			dropped++
			continue
		}

		ts = ts.In(loc)
		hour := time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, loc)
		b, exists := buckets[hour.Unix()]
		if !exists {
			b = &hourBucket{}
			buckets[hour.Unix()] = b
		}
		b.sum += val
		b.cnt++

		if first.IsZero() || hour.Before(first) {
			first = hour
		}
		if last.IsZero() || hour.After(last) {
			last = hour
		}
	}

	if len(buckets) == 0 {
		return nil, ErrNoValidReadings
	}

	n := int(last.Sub(first)/time.Hour) + 1
	t := make([]time.Time, 0, n)
	y := make([]float64, 0, n)
	var prev float64
	var filled int
	for hour := first; !hour.After(last); hour = hour.Add(time.Hour) {
		if b, exists := buckets[hour.Unix()]; exists {
			prev = b.sum / float64(b.cnt)
		} else {
			filled++
		}
		t = append(t, hour)
		y = append(y, prev)
	}

	slog.Debug("resampled readings to hourly series",
		"readings", len(readings),
		"dropped", dropped,
		"hours", len(t),
		"forward_filled", filled,
	)
	return &TimeDataset{T: t, Y: y}, nil
}

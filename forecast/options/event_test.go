package options

import (
	"testing"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/rickar/cal/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var independenceDay = &cal.Holiday{
	Name:  "Independence Day",
	Month: time.August,
	Day:   14,
	Func:  cal.CalcDayOfMonth,
}

func TestHoliday(t *testing.T) {
	pkt := time.FixedZone("PKT", 5*3600)

	testData := map[string]struct {
		start     time.Time
		end       time.Time
		durBefore time.Duration
		durAfter  time.Duration
		expected  []Event
	}{
		"simple": {
			start: time.Date(2022, 9, 1, 0, 0, 0, 0, pkt),
			end:   time.Date(2024, 9, 1, 0, 0, 0, 0, pkt),
			expected: []Event{
				{
					"independence_day",
					time.Date(2023, 8, 14, 0, 0, 0, 0, pkt),
					time.Date(2023, 8, 15, 0, 0, 0, 0, pkt),
				},
				{
					"independence_day",
					time.Date(2024, 8, 14, 0, 0, 0, 0, pkt),
					time.Date(2024, 8, 15, 0, 0, 0, 0, pkt),
				},
			},
		},
		"with buffer": {
			start:     time.Date(2023, 1, 1, 0, 0, 0, 0, pkt),
			end:       time.Date(2023, 12, 31, 0, 0, 0, 0, pkt),
			durBefore: 12 * time.Hour,
			durAfter:  24 * time.Hour,
			expected: []Event{
				{
					"independence_day",
					time.Date(2023, 8, 13, 12, 0, 0, 0, pkt),
					time.Date(2023, 8, 16, 0, 0, 0, 0, pkt),
				},
			},
		},
		"outside window": {
			start:    time.Date(2023, 9, 1, 0, 0, 0, 0, pkt),
			end:      time.Date(2023, 12, 31, 0, 0, 0, 0, pkt),
			expected: []Event{},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Holiday(independenceDay, td.start, td.end, pkt, td.durBefore, td.durAfter)
			require.Len(t, res, len(td.expected))
			for i := range td.expected {
				assert.Equal(t, td.expected[i].Name, res[i].Name)
				assert.True(t, td.expected[i].Start.Equal(res[i].Start), "start %s", res[i].Start)
				assert.True(t, td.expected[i].End.Equal(res[i].End), "end %s", res[i].End)
			}
		})
	}
}

func TestEventValid(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		ev  Event
		err error
	}{
		"valid":        {ev: NewEvent("a", start, start.Add(time.Hour))},
		"no name":      {ev: NewEvent("", start, start.Add(time.Hour)), err: ErrNoEventName},
		"unset":        {ev: NewEvent("a", time.Time{}, start), err: ErrUnsetTime},
		"start at end": {ev: NewEvent("a", start.Add(time.Hour), start), err: ErrStartAfterEnd},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.ev.Valid()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "eid_ul_fitr", EventName("Eid ul-Fitr"))
	assert.Equal(t, "quaid_e_azam_day", EventName(" Quaid-e-Azam Day "))
	assert.Equal(t, "labour_day", EventName("Labour Day"))
}

func TestEventOptionsGenerateFeatures(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := make([]time.Time, 72)
	for i := range tSeries {
		tSeries[i] = start.Add(time.Duration(i) * time.Hour)
	}

	opt := EventOptions{
		Events: []Event{
			NewEvent("Day One", start, start.Add(24*time.Hour)),
			NewEvent("day one", start.Add(48*time.Hour), start.Add(50*time.Hour)),
			NewEvent("", start, start.Add(time.Hour)),
		},
	}
	feat := opt.GenerateFeatures(tSeries)
	require.Equal(t, 1, feat.Len())

	mask, exists := feat.Get(feature.NewEvent("day_one"))
	require.True(t, exists)

	var cnt float64
	for _, v := range mask {
		cnt += v
	}
	assert.Equal(t, 26.0, cnt)
	assert.Equal(t, 1.0, mask[0])
	assert.Equal(t, 0.0, mask[24])
	assert.Equal(t, 1.0, mask[49])
}

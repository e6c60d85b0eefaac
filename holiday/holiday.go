// Package holiday provides the public holiday calendars whose dates are modelled as
// events by the forecaster.
package holiday

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast/options"
	"github.com/rickar/cal/v2"
)

var ErrUnknownCountry = errors.New("no holiday calendar for country")

// Definition is a holiday along with the padding applied around its observed day
type Definition struct {
	Holiday *cal.Holiday
	Before  time.Duration
	After   time.Duration
}

// Calendar is the set of holidays of a single country
type Calendar struct {
	Country     string
	Definitions []Definition
}

var calendars = map[string]func() *Calendar{
	"PK": Pakistan,
}

// ForCountry returns the calendar of an ISO 3166 alpha-2 country code. An empty code
// returns an empty calendar.
func ForCountry(code string) (*Calendar, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &Calendar{}, nil
	}
	newCal, exists := calendars[code]
	if !exists {
		return nil, fmt.Errorf("%q, %w", code, ErrUnknownCountry)
	}
	return newCal(), nil
}

// Events expands every holiday into the events occurring between start and end with
// day boundaries in loc. Results are ordered by start time.
func (c *Calendar) Events(start, end time.Time, loc *time.Location) []options.Event {
	if c == nil {
		return nil
	}

	var events []options.Event
	for _, def := range c.Definitions {
		events = append(events, options.Holiday(def.Holiday, start, end, loc, def.Before, def.After)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// Lookup returns the name of the holiday observed on the local day of t
func (c *Calendar) Lookup(t time.Time) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, def := range c.Definitions {
		_, observed := def.Holiday.Calc(t.Year())
		if observed.IsZero() {
			continue
		}
		if observed.Month() == t.Month() && observed.Day() == t.Day() {
			return def.Holiday.Name, true
		}
	}
	return "", false
}

// lunarDates builds a holiday function for dates following the Islamic calendar which
// are announced per year. Years without a known date produce no holiday.
func lunarDates(dates map[int]string) cal.HolidayFn {
	parsed := make(map[int]time.Time, len(dates))
	for year, date := range dates {
		d, err := time.Parse(time.DateOnly, date)
		if err != nil || d.Year() != year {
			panic(fmt.Sprintf("invalid lunar holiday date %q for %d", date, year))
		}
		parsed[year] = d
	}
	return func(_ *cal.Holiday, year int) time.Time {
		return parsed[year]
	}
}

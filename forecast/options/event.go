package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/feature"
	"github.com/aouyang1/go-aqi-forecaster/forecast/util"
	"github.com/rickar/cal/v2"
)

var (
	ErrStartAfterEnd = errors.New("event start time is after end time")
	ErrUnsetTime     = errors.New("unset event start or end time")
	ErrNoEventName   = errors.New("no event name")
)

// Event represents a time span to model with its own bias. Events sharing a name share
// one weight.
type Event struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// EventName normalizes a display name into a feature label
func EventName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(name)
	return name
}

// Holiday expands a calendar holiday into one event per year between start and end.
// Each event covers the observed local day in loc padded by durBefore and durAfter. All
// years share the holiday name.
func Holiday(hol *cal.Holiday, start, end time.Time, loc *time.Location, durBefore, durAfter time.Duration) []Event {
	if loc == nil {
		loc = time.UTC
	}

	events := []Event{}
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}

		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, loc)
		ev := Event{
			Name:  EventName(hol.Name),
			Start: day.Add(-durBefore),
			End:   day.Add(24 * time.Hour).Add(durAfter),
		}
		if ev.End.Before(start) || ev.Start.After(end) {
			continue
		}
		events = append(events, ev)
	}
	return events
}

type EventOptions struct {
	Events []Event `json:"events"`
}

// spans groups the valid events by name
func (e EventOptions) spans() map[string][]feature.Span {
	res := make(map[string][]feature.Span)
	for _, ev := range e.Events {
		if err := ev.Valid(); err != nil {
			slog.Warn("not separately modelling invalid event", "name", ev.Name, "error", err.Error())
			continue
		}
		name := EventName(ev.Name)
		res[name] = append(res[name], feature.Span{Start: ev.Start, End: ev.End})
	}
	return res
}

// GenerateFeatures creates one event mask per distinct event name
func (e EventOptions) GenerateFeatures(t []time.Time) *feature.Set {
	feat := feature.NewSet()
	for name, spans := range e.spans() {
		eFeat := feature.NewEvent(name)
		feat.Set(eFeat, eFeat.Generate(t, spans))
	}
	return feat
}

func (e EventOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(e.Events) > 0 {
		noCfg = ""
		if _, err := fmt.Fprintf(tbl, "%s%sName\tStart\tEnd\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sEvents:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	for _, ev := range e.Events {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			ev.Name, ev.Start.Format(time.DateOnly), ev.End.Format(time.DateOnly)); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

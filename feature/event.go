package feature

import (
	"fmt"
	"strings"
	"time"
)

// Span is a half open [Start, End) time range
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t is within the span
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Event feature representing one or more spans of time sharing a single bias, e.g. every
// occurrence of the same holiday.
type Event struct {
	Name string `json:"name"`
}

// NewEvent creates a new event instance given a name
func NewEvent(name string) *Event {
	return &Event{name}
}

// String returns the string representation of the event feature
func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (e Event) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

// Decode converts the feature into a map of label values
func (e Event) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = e.Name
	return res
}

// Generate returns a mask which is 1 wherever a time point falls inside any of the spans
func (e Event) Generate(t []time.Time, spans []Span) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		for _, span := range spans {
			if span.Contains(tPnt) {
				res[i] = 1.0
				break
			}
		}
	}
	return res
}

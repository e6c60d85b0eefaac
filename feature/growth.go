package feature

import (
	"fmt"
	"strings"
	"time"
)

const (
	GrowthIntercept = "intercept"
	GrowthLinear    = "linear"
)

// Growth is the baseline of the model, either a constant or a linear ramp over the
// training window
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

func Intercept() *Growth {
	return NewGrowth(GrowthIntercept)
}

func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

// String returns the string representation of the growth feature
func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (g Growth) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return g.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

// Decode converts the feature into a map of label values
func (g Growth) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = g.Name
	return res
}

// Generate returns the regressor values for each time point. The linear ramp is 0 at
// trainStart and 1 at trainEnd, continuing past either end.
func (g Growth) Generate(t []time.Time, trainStart, trainEnd time.Time) []float64 {
	res := make([]float64, len(t))
	switch g.Name {
	case GrowthIntercept:
		for i := range res {
			res[i] = 1.0
		}
	case GrowthLinear:
		window := trainEnd.Sub(trainStart).Seconds()
		if window <= 0 {
			return res
		}
		for i, tPnt := range t {
			res[i] = tPnt.Sub(trainStart).Seconds() / window
		}
	}
	return res
}

package feature

import (
	"fmt"
	"strings"
	"time"
)

type ChangepointComp string

const (
	ChangepointCompBias  ChangepointComp = "bias"
	ChangepointCompSlope ChangepointComp = "slope"
)

// Changepoint feature representing a point in time where the trend changes. The component
// is either of type bias (jump) or slope (trend).
type Changepoint struct {
	Name            string          `json:"name"`
	ChangepointComp ChangepointComp `json:"changepoint_component"`
}

func NewChangepoint(name string, comp ChangepointComp) *Changepoint {
	return &Changepoint{name, comp}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s_%s", c.Name, c.ChangepointComp)
}

func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "changepoint_component":
		return string(c.ChangepointComp), true
	}
	return "", false
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	res["changepoint_component"] = string(c.ChangepointComp)
	return res
}

// Generate is zero before chpt. After it the bias component is 1 and the slope component
// grows linearly, normalised by the length of the training window.
func (c Changepoint) Generate(t []time.Time, chpt time.Time, window time.Duration) []float64 {
	res := make([]float64, len(t))
	windowSec := window.Seconds()
	for i, tPnt := range t {
		if tPnt.Before(chpt) {
			continue
		}
		switch c.ChangepointComp {
		case ChangepointCompBias:
			res[i] = 1.0
		case ChangepointCompSlope:
			if windowSec > 0 {
				res[i] = tPnt.Sub(chpt).Seconds() / windowSec
			}
		}
	}
	return res
}

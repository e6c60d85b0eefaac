package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Data is a feature with its observed values
type Data struct {
	F    Feature
	Data []float64
}

// Set represents a mapping to each feature data keyed by the string representation
// of the feature.
type Set struct {
	set map[string]Data
}

func NewSet() *Set {
	return &Set{set: make(map[string]Data)}
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set)
}

// Set stores data for the feature overwriting any previous values
func (s *Set) Set(f Feature, data []float64) {
	s.set[f.String()] = Data{F: f, Data: data}
}

// Get returns the values of a feature if it is present
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	d, exists := s.set[f.String()]
	return d.Data, exists
}

// Del removes a feature from the set
func (s *Set) Del(f Feature) {
	delete(s.set, f.String())
}

// Update copies every feature of other into this set
func (s *Set) Update(other *Set) {
	if other == nil {
		return
	}
	for k, v := range other.set {
		s.set[k] = v
	}
}

// Filter returns a new set with only the features of the given type
func (s *Set) Filter(ft FeatureType) *Set {
	res := NewSet()
	if s == nil {
		return res
	}
	for k, v := range s.set {
		if v.F.Type() == ft {
			res.set[k] = v
		}
	}
	return res
}

// Labels returns the sorted slice of all tracked features in the Set
func (s *Set) Labels() *Labels {
	if s == nil {
		return NewLabels(nil)
	}

	labels := make([]Feature, 0, len(s.set))
	for _, feat := range s.set {
		labels = append(labels, feat.F)
	}
	sort.Slice(
		labels,
		func(i, j int) bool {
			return labels[i].String() < labels[j].String()
		},
	)
	return NewLabels(labels)
}

// Matrix returns the design matrix with m rows representing the observations and
// n columns in the order of Labels.
func (s *Set) Matrix() *mat.Dense {
	labels := s.Labels()
	if labels.Len() == 0 {
		return nil
	}

	var m int
	for _, flabel := range labels.Labels() {
		m = len(s.set[flabel.String()].Data)
		break
	}
	if m == 0 {
		return nil
	}
	n := labels.Len()

	obs := make([]float64, m*n)
	for j, label := range labels.Labels() {
		feature := s.set[label.String()]
		for i := 0; i < len(feature.Data); i++ {
			obs[n*i+j] = feature.Data[i]
		}
	}
	return mat.NewDense(m, n, obs)
}

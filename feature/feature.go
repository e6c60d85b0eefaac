// Package feature defines the labelled regressors of the forecast model and the Set used
// to assemble them into a design matrix.
package feature

import (
	"errors"
	"fmt"
	"strconv"
)

type FeatureType string

const (
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeSeasonality FeatureType = "seasonality"
	FeatureTypeEvent       FeatureType = "event"
)

var (
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrMissingLabel       = errors.New("missing feature label")
)

// Feature is a single named regressor. The String representation is unique within a
// model and is used as the key for its coefficient.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// FromLabels rebuilds a feature from its type and the label map produced by Decode
func FromLabels(ft FeatureType, labels map[string]string) (Feature, error) {
	get := func(key string) (string, error) {
		val, exists := labels[key]
		if !exists {
			return "", fmt.Errorf("%s feature needs %q, %w", ft, key, ErrMissingLabel)
		}
		return val, nil
	}

	name, err := get("name")
	if err != nil {
		return nil, err
	}

	switch ft {
	case FeatureTypeGrowth:
		return NewGrowth(name), nil
	case FeatureTypeEvent:
		return NewEvent(name), nil
	case FeatureTypeChangepoint:
		comp, err := get("changepoint_component")
		if err != nil {
			return nil, err
		}
		return NewChangepoint(name, ChangepointComp(comp)), nil
	case FeatureTypeSeasonality:
		comp, err := get("fourier_component")
		if err != nil {
			return nil, err
		}
		orderStr, err := get("order")
		if err != nil {
			return nil, err
		}
		order, err := strconv.Atoi(orderStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seasonality order %q, %w", orderStr, err)
		}
		return NewSeasonality(name, FourierComp(comp), order), nil
	}
	return nil, fmt.Errorf("%q, %w", ft, ErrUnknownFeatureType)
}

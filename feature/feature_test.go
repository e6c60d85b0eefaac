package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLabels(t *testing.T) {
	testData := map[string]struct {
		feat Feature
	}{
		"growth":      {feat: Linear()},
		"event":       {feat: NewEvent("ashura")},
		"changepoint": {feat: NewChangepoint("auto_03", ChangepointCompSlope)},
		"seasonality": {feat: NewSeasonality("yearly", FourierCompSin, 10)},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := FromLabels(td.feat.Type(), td.feat.Decode())
			require.NoError(t, err)
			assert.Equal(t, td.feat, res)
		})
	}
}

func TestFromLabelsErrors(t *testing.T) {
	_, err := FromLabels(FeatureType("bogus"), map[string]string{"name": "x"})
	assert.ErrorIs(t, err, ErrUnknownFeatureType)

	_, err = FromLabels(FeatureTypeEvent, map[string]string{})
	assert.ErrorIs(t, err, ErrMissingLabel)

	_, err = FromLabels(FeatureTypeSeasonality, map[string]string{"name": "x", "fourier_component": "sin"})
	assert.ErrorIs(t, err, ErrMissingLabel)

	_, err = FromLabels(FeatureTypeSeasonality, map[string]string{"name": "x", "fourier_component": "sin", "order": "one"})
	assert.Error(t, err)
}

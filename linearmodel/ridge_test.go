package linearmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func linearData(m int) (*mat.Dense, []float64) {
	obs := make([]float64, 0, m*3)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		x1 := float64(i) / float64(m)
		x2 := math.Sin(float64(i) / 5.0)
		obs = append(obs, 1.0, x1, x2)
		y[i] = 2.0 + 3.0*x1 - 1.5*x2
	}
	return mat.NewDense(m, 3, obs), y
}

func TestRidgeRegressionFit(t *testing.T) {
	x, y := linearData(200)

	testData := map[string]struct {
		opt      *RidgeOptions
		expected []float64
		tol      float64
	}{
		"ordinary least squares": {
			opt:      nil,
			expected: []float64{2.0, 3.0, -1.5},
			tol:      1e-5,
		},
		"unpenalized intercept with small penalties": {
			opt: &RidgeOptions{
				Penalties: []float64{0, 1e-6, 1e-6},
			},
			expected: []float64{2.0, 3.0, -1.5},
			tol:      1e-3,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewRidgeRegression(td.opt)
			require.NoError(t, err)
			require.NoError(t, model.Fit(x, y))
			assert.InDeltaSlice(t, td.expected, model.Coef(), td.tol)

			r2, err := model.Score(x, y)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, r2, 1e-3)
		})
	}
}

func TestRidgeRegressionShrinks(t *testing.T) {
	x, y := linearData(200)

	ols, err := NewRidgeRegression(nil)
	require.NoError(t, err)
	require.NoError(t, ols.Fit(x, y))

	ridge, err := NewRidgeRegression(&RidgeOptions{Penalties: []float64{0, 1, 1}})
	require.NoError(t, err)
	require.NoError(t, ridge.Fit(x, y))

	norm := func(c []float64) float64 { return math.Hypot(c[1], c[2]) }
	assert.Less(t, norm(ridge.Coef()), norm(ols.Coef()))
}

func TestRidgeRegressionZeroColumn(t *testing.T) {
	m := 50
	obs := make([]float64, 0, m*2)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		obs = append(obs, 1.0, 0.0)
		y[i] = 4.0
	}
	x := mat.NewDense(m, 2, obs)

	model, err := NewRidgeRegression(nil)
	require.NoError(t, err)
	require.NoError(t, model.Fit(x, y))
	assert.InDeltaSlice(t, []float64{4.0, 0.0}, model.Coef(), 1e-6)
}

func TestRidgeRegressionErrors(t *testing.T) {
	_, err := NewRidgeRegression(&RidgeOptions{Lambda: -1})
	assert.ErrorIs(t, err, ErrNegativeLambda)

	_, err = NewRidgeRegression(&RidgeOptions{Penalties: []float64{0, -1}})
	assert.ErrorIs(t, err, ErrNegativeLambda)

	model, err := NewRidgeRegression(nil)
	require.NoError(t, err)

	assert.ErrorIs(t, model.Fit(nil, nil), ErrNoTrainingMatrix)

	x, y := linearData(10)
	assert.ErrorIs(t, model.Fit(x, y[:5]), ErrTargetLenMismatch)

	model, err = NewRidgeRegression(&RidgeOptions{Penalties: []float64{1}})
	require.NoError(t, err)
	assert.ErrorIs(t, model.Fit(x, y), ErrPenaltyLenMismatch)

	_, err = Predict(nil, nil)
	assert.ErrorIs(t, err, ErrNoDesignMatrix)

	_, err = Predict(x, []float64{1})
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)
}
